package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

var testPayload = []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","status":"succeeded"}}}`)

func TestVerifySignature(t *testing.T) {
	now := time.Now()
	header := SignPayload(testPayload, testSecret, now)

	err := VerifySignature(testPayload, header, testSecret, DefaultTolerance, now)
	require.NoError(t, err)
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	now := time.Now()
	header := SignPayload(testPayload, "whsec_other", now)

	err := VerifySignature(testPayload, header, testSecret, DefaultTolerance, now)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_TamperedPayload(t *testing.T) {
	now := time.Now()
	header := SignPayload(testPayload, testSecret, now)

	tampered := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_999","status":"succeeded"}}}`)
	err := VerifySignature(tampered, header, testSecret, DefaultTolerance, now)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_MalformedHeader(t *testing.T) {
	now := time.Now()
	for _, header := range []string{
		"",
		"garbage",
		"t=abc,v1=deadbeef",
		"v1=deadbeef",
		fmt.Sprintf("t=%d", now.Unix()),
	} {
		t.Run(header, func(t *testing.T) {
			err := VerifySignature(testPayload, header, testSecret, DefaultTolerance, now)
			require.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	now := time.Now()

	// 簽章本身正確但時間戳超出容許範圍, 防replay
	header := SignPayload(testPayload, testSecret, now.Add(-6*time.Minute))
	err := VerifySignature(testPayload, header, testSecret, DefaultTolerance, now)
	require.ErrorIs(t, err, ErrStaleTimestamp)

	header = SignPayload(testPayload, testSecret, now.Add(6*time.Minute))
	err = VerifySignature(testPayload, header, testSecret, DefaultTolerance, now)
	require.ErrorIs(t, err, ErrStaleTimestamp)

	// 邊界內可通過
	header = SignPayload(testPayload, testSecret, now.Add(-4*time.Minute))
	err = VerifySignature(testPayload, header, testSecret, DefaultTolerance, now)
	require.NoError(t, err)
}

func TestConstructEvent(t *testing.T) {
	now := time.Now()
	header := SignPayload(testPayload, testSecret, now)

	event, err := ConstructEvent(testPayload, header, testSecret, now)
	require.NoError(t, err)
	require.Equal(t, "evt_1", event.ID)
	require.Equal(t, EventIntentSucceeded, event.Type)
	require.Equal(t, "pi_1", event.Data.Object.ID)
	require.Equal(t, StatusSucceeded, event.Data.Object.Status)
}

func TestConstructEvent_RejectsBadSignatureBeforeParsing(t *testing.T) {
	now := time.Now()

	_, err := ConstructEvent(testPayload, "t=1,v1=00", testSecret, now)
	require.Error(t, err)
}

func TestConstructEvent_MalformedJSON(t *testing.T) {
	now := time.Now()
	payload := []byte(`{not json`)
	header := SignPayload(payload, testSecret, now)

	_, err := ConstructEvent(payload, header, testSecret, now)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidSignature)
}
