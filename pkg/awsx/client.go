package awsx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"

	"github.com/kinship-labs/kinship/pkg/log"
)

const (
	defaultSessionDuration = 8 * time.Hour
	minSessionDuration     = 15 * time.Minute
)

// ClientOptions controls how NewClient builds the Kinesis client.
// The zero value uses the default credential chain in the default region.
type ClientOptions struct {
	// Region overrides the region from the ambient configuration.
	Region string

	// RoleARN is the ARN of a role to assume. Mutually exclusive with
	// Account/RoleName.
	RoleARN string

	// RoleName names a role to assume. With Account set, the role lives
	// in that account; otherwise it is looked up in the invoking account
	// and its configured maximum session duration is used.
	RoleName string

	// Account qualifies RoleName with an account ID.
	Account string

	// SessionName labels the role session. If empty, one is derived from
	// the caller identity.
	SessionName string

	// Policy optionally restricts the assumed role's permissions.
	// Requires RoleARN or RoleName.
	Policy string

	// Duration bounds the role session. When the role's maximum is
	// shorter, NewClient retries with successively halved durations
	// rather than failing.
	Duration time.Duration

	// Logger receives debug lines describing what the factory tries.
	Logger log.Logger
}

func (o *ClientOptions) validate() error {
	if o.Account != "" && o.RoleName == "" {
		return errors.New("kinship: account requires role name")
	}
	if o.Policy != "" && o.RoleName == "" && o.RoleARN == "" {
		return errors.New("kinship: policy requires a role")
	}
	if o.RoleName != "" && o.RoleARN != "" {
		return errors.New("kinship: specify role name or role ARN, not both")
	}
	return nil
}

// stsAPI and iamAPI are the STS/IAM slices the factory uses, split out so
// the assume-role path is testable without the network.
type stsAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type iamAPI interface {
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
}

// NewClient creates a Kinesis client, optionally assuming a role first.
// Without a role, it is the default credential chain plus an optional
// region override. With one, the role is resolved (by ARN, or by name via
// IAM), assumed through STS, and the client runs on the session
// credentials.
func NewClient(ctx context.Context, opts ClientOptions) (*kinesis.Client, error) {
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("kinship: load aws config: %w", err)
	}

	if opts.RoleARN == "" && opts.RoleName == "" {
		opts.Logger.Debug("creating kinesis client with default credentials",
			log.String("region", cfg.Region))
		return kinesis.NewFromConfig(cfg), nil
	}

	creds, err := assumeRoleCredentials(ctx, sts.NewFromConfig(cfg), iam.NewFromConfig(cfg), opts)
	if err != nil {
		return nil, err
	}
	cfg.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
		aws.ToString(creds.AccessKeyId),
		aws.ToString(creds.SecretAccessKey),
		aws.ToString(creds.SessionToken),
	))
	return kinesis.NewFromConfig(cfg), nil
}

// assumeRoleCredentials resolves the role and assumes it. Unrecoverable
// failures (typically missing permissions) propagate to the caller.
func assumeRoleCredentials(ctx context.Context, stsClient stsAPI, iamClient iamAPI, opts ClientOptions) (*ststypes.Credentials, error) {
	roleARN := opts.RoleARN
	duration := opts.Duration

	switch {
	case opts.Account != "":
		roleARN = fmt.Sprintf("arn:aws:iam::%s:role/%s", opts.Account, opts.RoleName)
	case opts.RoleName != "":
		opts.Logger.Debug("retrieving role for invoking account",
			log.String("role", opts.RoleName))
		out, err := iamClient.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(opts.RoleName)})
		if err != nil {
			return nil, fmt.Errorf("kinship: get role %s: %w", opts.RoleName, err)
		}
		roleARN = aws.ToString(out.Role.Arn)
		if duration == 0 && out.Role.MaxSessionDuration != nil {
			duration = time.Duration(*out.Role.MaxSessionDuration) * time.Second
		}
	}
	if duration == 0 {
		duration = defaultSessionDuration
	}

	sessionName := opts.SessionName
	if sessionName == "" {
		var err error
		sessionName, err = sessionNameFromIdentity(ctx, stsClient, opts.Logger)
		if err != nil {
			return nil, err
		}
	}

	return assumeRole(ctx, stsClient, roleARN, sessionName, opts.Policy, duration, opts.Logger)
}

// assumeRole calls STS, halving the requested duration whenever the role's
// maximum session duration rejects it, down to the service minimum of 15
// minutes.
func assumeRole(ctx context.Context, stsClient stsAPI, roleARN, sessionName, policy string, duration time.Duration, logger log.Logger) (*ststypes.Credentials, error) {
	in := &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleARN),
		RoleSessionName: aws.String(sessionName),
	}
	if policy != "" {
		in.Policy = aws.String(policy)
	}

	for {
		logger.Debug("assuming role",
			log.String("role_arn", roleARN),
			log.String("session_name", sessionName),
			log.Int64("duration_seconds", int64(duration/time.Second)))
		in.DurationSeconds = aws.Int32(int32(duration / time.Second))
		out, err := stsClient.AssumeRole(ctx, in)
		if err == nil {
			return out.Credentials, nil
		}
		if !strings.Contains(err.Error(), "MaxSessionDuration") {
			return nil, fmt.Errorf("kinship: assume role %s: %w", roleARN, err)
		}
		if duration <= minSessionDuration {
			return nil, fmt.Errorf("kinship: assume role %s rejected at minimum duration: %w", roleARN, err)
		}
		if duration >= 2*minSessionDuration {
			duration /= 2
		} else {
			duration = minSessionDuration
		}
	}
}

// sessionNameFromIdentity derives a session name from the caller identity:
// "account-resource" for long-term user credentials (user IDs start with
// "AIDA"), or the existing session's resource name when already running on
// an assumed role.
func sessionNameFromIdentity(ctx context.Context, stsClient stsAPI, logger log.Logger) (string, error) {
	logger.Debug("generating session name from caller identity")
	identity, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("kinship: get caller identity: %w", err)
	}
	arn := aws.ToString(identity.Arn)
	resource := arn
	if idx := strings.LastIndex(arn, "/"); idx >= 0 {
		resource = arn[idx+1:]
	}
	if resource == "" {
		resource = "unknown"
	}
	if strings.HasPrefix(aws.ToString(identity.UserId), "AIDA") {
		return aws.ToString(identity.Account) + "-" + resource, nil
	}
	return resource, nil
}
