package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("wrong password is a credential rejection", func(t *testing.T) {
		err := &types.NotAuthorizedException{
			Message: aws.String("Incorrect username or password."),
		}
		require.Equal(t, KindCredentialRejected, classify(err))
	})

	t.Run("missing secret hash is its own kind", func(t *testing.T) {
		err := &types.NotAuthorizedException{
			Message: aws.String("Client 4abc is configured with secret but SECRET_HASH was not received"),
		}
		require.Equal(t, KindRequiresSecretHash, classify(err))
	})

	t.Run("unverifiable secret hash is its own kind", func(t *testing.T) {
		err := &types.NotAuthorizedException{
			Message: aws.String("Unable to verify secret hash for client 4abc"),
		}
		require.Equal(t, KindRequiresSecretHash, classify(err))
	})

	t.Run("account state errors collapse to credential rejection", func(t *testing.T) {
		for _, err := range []error{
			&types.UserNotFoundException{},
			&types.UserNotConfirmedException{},
			&types.PasswordResetRequiredException{},
			&types.InvalidPasswordException{},
			&types.CodeMismatchException{},
			&types.ExpiredCodeException{},
		} {
			require.Equal(t, KindCredentialRejected, classify(err), "%T", err)
		}
	})

	t.Run("rate limit errors classify as throttled", func(t *testing.T) {
		require.Equal(t, KindThrottled, classify(&types.TooManyRequestsException{}))
		require.Equal(t, KindThrottled, classify(&types.LimitExceededException{}))
	})

	t.Run("deployment errors classify as configuration", func(t *testing.T) {
		require.Equal(t, KindConfiguration, classify(&types.ResourceNotFoundException{}))
		require.Equal(t, KindConfiguration, classify(&types.InvalidUserPoolConfigurationException{}))
		require.Equal(t, KindConfiguration, classify(&types.InvalidParameterException{
			Message: aws.String("Missing required parameter USERNAME"),
		}))
	})

	t.Run("secret hash parameter errors override configuration", func(t *testing.T) {
		require.Equal(t, KindRequiresSecretHash, classify(&types.InvalidParameterException{
			Message: aws.String("SECRET_HASH was not received for this client"),
		}))
	})

	t.Run("timeouts classify as unavailable", func(t *testing.T) {
		require.Equal(t, KindUnavailable, classify(context.DeadlineExceeded))
		require.Equal(t, KindUnavailable,
			classify(fmt.Errorf("call failed: %w", context.DeadlineExceeded)))
	})

	t.Run("transport errors classify as unavailable", func(t *testing.T) {
		require.Equal(t, KindUnavailable, classify(errors.New("dial tcp: connection refused")))
	})

	t.Run("wrapped typed errors still classify", func(t *testing.T) {
		err := fmt.Errorf("operation error: %w", &types.UserNotFoundException{})
		require.Equal(t, KindCredentialRejected, classify(err))
	})
}

func TestSecretHash(t *testing.T) {
	t.Parallel()

	c := &Cognito{clientID: "client-abc", secret: "top-secret"}

	mac := hmac.New(sha256.New, []byte("top-secret"))
	mac.Write([]byte("alex@example.com" + "client-abc"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	require.Equal(t, want, c.secretHash("alex@example.com"))
}

func TestChallengeKind(t *testing.T) {
	t.Parallel()

	require.Equal(t, ChallengeNewPassword, challengeKind(types.ChallengeNameTypeNewPasswordRequired))
	require.Equal(t, ChallengeMFA, challengeKind(types.ChallengeNameTypeSmsMfa))
	require.Equal(t, ChallengeMFA, challengeKind(types.ChallengeNameTypeSoftwareTokenMfa))
}

func TestTokenSetFrom(t *testing.T) {
	t.Parallel()

	got := tokenSetFrom(&types.AuthenticationResultType{
		AccessToken:  aws.String("acc"),
		IdToken:      aws.String("id"),
		RefreshToken: aws.String("ref"),
		ExpiresIn:    3600,
	})
	require.Equal(t, &TokenSet{
		AccessToken: "acc", IDToken: "id", RefreshToken: "ref", ExpiresIn: 3600,
	}, got)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindThrottled, Op: "initiate_auth", Err: errors.New("x")}
	require.Equal(t, KindThrottled, KindOf(fmt.Errorf("login: %w", err)))
	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}
