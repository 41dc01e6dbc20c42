package awsx

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"

	"github.com/kinship-labs/kinship/pkg/log"
)

type fakeSTS struct {
	assumeInputs []*sts.AssumeRoleInput
	assume       func(in *sts.AssumeRoleInput) (*sts.AssumeRoleOutput, error)
	identity     *sts.GetCallerIdentityOutput
}

func (f *fakeSTS) AssumeRole(ctx context.Context, in *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	snapshot := *in
	f.assumeInputs = append(f.assumeInputs, &snapshot)
	return f.assume(in)
}

func (f *fakeSTS) GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return f.identity, nil
}

type fakeIAM struct {
	role *iam.GetRoleOutput
	err  error
}

func (f *fakeIAM) GetRole(ctx context.Context, in *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	return f.role, f.err
}

func sessionCredentials() *ststypes.Credentials {
	return &ststypes.Credentials{
		AccessKeyId:     aws.String("AKIA-test"),
		SecretAccessKey: aws.String("secret"),
		SessionToken:    aws.String("token"),
	}
}

func TestValidateRejectsBadCombinations(t *testing.T) {
	cases := []ClientOptions{
		{Account: "123456789012"},
		{Policy: `{"Version":"2012-10-17"}`},
		{RoleName: "reader", RoleARN: "arn:aws:iam::123456789012:role/reader"},
	}
	for i, opts := range cases {
		if err := opts.validate(); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, opts)
		}
	}
	good := ClientOptions{Account: "123456789012", RoleName: "reader"}
	if err := good.validate(); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}
}

func TestAssumeRoleHalvesDuration(t *testing.T) {
	maxErr := errors.New("ValidationError: requested DurationSeconds exceeds the MaxSessionDuration set for this role")
	fake := &fakeSTS{
		assume: func(in *sts.AssumeRoleInput) (*sts.AssumeRoleOutput, error) {
			if aws.ToInt32(in.DurationSeconds) > 3600 {
				return nil, maxErr
			}
			return &sts.AssumeRoleOutput{Credentials: sessionCredentials()}, nil
		},
	}

	creds, err := assumeRole(context.Background(), fake,
		"arn:aws:iam::123456789012:role/reader", "session", "", 8*time.Hour, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("assume role: %v", err)
	}
	if aws.ToString(creds.AccessKeyId) != "AKIA-test" {
		t.Fatalf("credentials %+v", creds)
	}

	// 8h -> 4h -> 2h -> 1h succeeds.
	var durations []int32
	for _, in := range fake.assumeInputs {
		durations = append(durations, aws.ToInt32(in.DurationSeconds))
	}
	want := []int32{28800, 14400, 7200, 3600}
	if len(durations) != len(want) {
		t.Fatalf("attempted durations %v, want %v", durations, want)
	}
	for i := range want {
		if durations[i] != want[i] {
			t.Fatalf("attempted durations %v, want %v", durations, want)
		}
	}
}

func TestAssumeRoleGivesUpAtMinimumDuration(t *testing.T) {
	maxErr := errors.New("MaxSessionDuration exceeded")
	fake := &fakeSTS{
		assume: func(in *sts.AssumeRoleInput) (*sts.AssumeRoleOutput, error) {
			return nil, maxErr
		},
	}

	_, err := assumeRole(context.Background(), fake,
		"arn:aws:iam::123456789012:role/reader", "session", "", 30*time.Minute, log.NewNoopLogger())
	if err == nil {
		t.Fatalf("expected failure at minimum duration")
	}
	last := fake.assumeInputs[len(fake.assumeInputs)-1]
	if aws.ToInt32(last.DurationSeconds) != 900 {
		t.Fatalf("final attempt used %d seconds, want 900", aws.ToInt32(last.DurationSeconds))
	}
}

func TestAssumeRoleOtherErrorsPropagate(t *testing.T) {
	denied := errors.New("AccessDenied: not authorized to perform sts:AssumeRole")
	fake := &fakeSTS{
		assume: func(in *sts.AssumeRoleInput) (*sts.AssumeRoleOutput, error) {
			return nil, denied
		},
	}

	_, err := assumeRole(context.Background(), fake,
		"arn:aws:iam::123456789012:role/reader", "session", "", time.Hour, log.NewNoopLogger())
	if !errors.Is(err, denied) {
		t.Fatalf("expected access-denied passthrough, got %v", err)
	}
	if len(fake.assumeInputs) != 1 {
		t.Fatalf("non-duration errors must not be retried, got %d attempts", len(fake.assumeInputs))
	}
}

func TestSessionNameForUserCredentials(t *testing.T) {
	fake := &fakeSTS{
		identity: &sts.GetCallerIdentityOutput{
			Account: aws.String("123456789012"),
			Arn:     aws.String("arn:aws:iam::123456789012:user/alex"),
			UserId:  aws.String("AIDAEXAMPLE"),
		},
	}
	name, err := sessionNameFromIdentity(context.Background(), fake, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("session name: %v", err)
	}
	if name != "123456789012-alex" {
		t.Fatalf("session name %q", name)
	}
}

func TestSessionNameForAssumedRole(t *testing.T) {
	fake := &fakeSTS{
		identity: &sts.GetCallerIdentityOutput{
			Account: aws.String("123456789012"),
			Arn:     aws.String("arn:aws:sts::123456789012:assumed-role/deployer/build-42"),
			UserId:  aws.String("AROAEXAMPLE:build-42"),
		},
	}
	name, err := sessionNameFromIdentity(context.Background(), fake, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("session name: %v", err)
	}
	if name != "build-42" {
		t.Fatalf("session name %q", name)
	}
}

func TestRoleByNameUsesConfiguredMaxDuration(t *testing.T) {
	fakeIam := &fakeIAM{
		role: &iam.GetRoleOutput{
			Role: &iamtypes.Role{
				Arn:                aws.String("arn:aws:iam::123456789012:role/reader"),
				MaxSessionDuration: aws.Int32(3600),
			},
		},
	}
	fakeSts := &fakeSTS{
		assume: func(in *sts.AssumeRoleInput) (*sts.AssumeRoleOutput, error) {
			return &sts.AssumeRoleOutput{Credentials: sessionCredentials()}, nil
		},
	}

	_, err := assumeRoleCredentials(context.Background(), fakeSts, fakeIam, ClientOptions{
		RoleName:    "reader",
		SessionName: "session",
		Logger:      log.NewNoopLogger(),
	})
	if err != nil {
		t.Fatalf("assume role credentials: %v", err)
	}
	in := fakeSts.assumeInputs[0]
	if aws.ToInt32(in.DurationSeconds) != 3600 {
		t.Fatalf("duration %d, want role maximum 3600", aws.ToInt32(in.DurationSeconds))
	}
	if !strings.HasSuffix(aws.ToString(in.RoleArn), "role/reader") {
		t.Fatalf("role arn %q", aws.ToString(in.RoleArn))
	}
}

func TestAccountAndRoleNameBuildARN(t *testing.T) {
	fakeSts := &fakeSTS{
		assume: func(in *sts.AssumeRoleInput) (*sts.AssumeRoleOutput, error) {
			return &sts.AssumeRoleOutput{Credentials: sessionCredentials()}, nil
		},
	}

	_, err := assumeRoleCredentials(context.Background(), fakeSts, &fakeIAM{}, ClientOptions{
		Account:     "210987654321",
		RoleName:    "writer",
		SessionName: "session",
		Logger:      log.NewNoopLogger(),
	})
	if err != nil {
		t.Fatalf("assume role credentials: %v", err)
	}
	got := aws.ToString(fakeSts.assumeInputs[0].RoleArn)
	if got != "arn:aws:iam::210987654321:role/writer" {
		t.Fatalf("role arn %q", got)
	}
}
