package util

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
)

// GenerateOrderNumber 產生人類可讀訂單編號
// 格式: ORD-20060102150405-XXXX
func GenerateOrderNumber() string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = charset[rand.Intn(len(charset))]
	}
	return fmt.Sprintf("%s-%s-%s", constants.OrderNumberPrefix, time.Now().UTC().Format("20060102150405"), suffix)
}
