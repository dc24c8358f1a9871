package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
	"time"

	"github.com/moneylink/moneylink_job/models"
	"gorm.io/gorm"
)

const slugLength = 6
const slugBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateUniqueSlug produces the short task URL component, retrying until it
// does not collide with an existing link.
func GenerateUniqueSlug(tx *gorm.DB) (string, error) {
	seededRand := mrand.New(mrand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, slugLength)
		for i := range b {
			b[i] = slugBytes[seededRand.Intn(len(slugBytes))]
		}
		slug := string(b)

		var link models.Link
		err := tx.Where("slug = ?", slug).First(&link).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return slug, nil
			}
			return "", err
		}
	}
}

// GenerateCardCode produces a scratch-card style serial and code pair for
// fulfilling card withdrawals.
func GenerateCardCode() (serial string, code string, err error) {
	serialNum, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		return "", "", err
	}
	codeNum, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000_000))
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("SR%09d", serialNum), fmt.Sprintf("%012d", codeNum), nil
}
