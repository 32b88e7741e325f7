package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// webhook事件類型
const (
	EventIntentSucceeded  = "payment_intent.succeeded"
	EventIntentFailed     = "payment_intent.payment_failed"
	EventIntentCanceled   = "payment_intent.canceled"
	EventIntentProcessing = "payment_intent.processing"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
)

// Event 供應商webhook事件
// 只解析已知的payment_intent事件形狀, 未知類型由caller忽略
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object Intent `json:"object"`
	} `json:"data"`
}

// DefaultTolerance 簽章時間戳容許範圍
const DefaultTolerance = 5 * time.Minute

// VerifySignature 驗證raw body的HMAC-SHA256簽章
// header格式: "t=<unix>,v1=<hex digest>", 簽章內容為 "<t>.<raw body>"
// 任何狀態變更前必須先通過這裡
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	var ts int64
	var sigs []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			parsed, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			ts = parsed
		case "v1":
			sigs = append(sigs, kv[1])
		}
	}

	if ts == 0 || len(sigs) == 0 {
		return ErrInvalidSignature
	}

	if tolerance > 0 {
		diff := now.Sub(time.Unix(ts, 0))
		if diff > tolerance || diff < -tolerance {
			return ErrStaleTimestamp
		}
	}

	expected := computeSignature(payload, ts, secret)
	for _, sig := range sigs {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

func computeSignature(payload []byte, ts int64, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignPayload 產生簽章header, 測試與本地模擬用
func SignPayload(payload []byte, secret string, now time.Time) string {
	ts := now.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(computeSignature(payload, ts, secret)))
}

// ConstructEvent 驗章後解析事件
func ConstructEvent(payload []byte, header, secret string, now time.Time) (*Event, error) {
	if err := VerifySignature(payload, header, secret, DefaultTolerance, now); err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("parsing webhook payload: %w", err)
	}
	return &event, nil
}
