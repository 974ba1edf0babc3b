package model

import (
	"strings"
	"time"
)

// Bucket is the fixed credential category set.
type Bucket string

// Credential buckets. Anything unrecognised lands in BucketOther.
const (
	BucketIdentity Bucket = "identity"
	BucketActivity Bucket = "activity"
	BucketSkills   Bucket = "skills"
	BucketOther    Bucket = "other"
)

// Buckets lists every bucket in presentation order.
var Buckets = []Bucket{BucketIdentity, BucketActivity, BucketSkills, BucketOther}

// BucketFor maps a free-form category to its bucket.
func BucketFor(category string) Bucket {
	switch Bucket(strings.ToLower(strings.TrimSpace(category))) {
	case BucketIdentity:
		return BucketIdentity
	case BucketActivity:
		return BucketActivity
	case BucketSkills:
		return BucketSkills
	default:
		return BucketOther
	}
}

// Credential is an earned attestation.
type Credential struct {
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Category         string    `json:"category"`
	Points           float64   `json:"points"`
	EarnedAt         time.Time `json:"earnedAt"`
	LastCalculatedAt time.Time `json:"lastCalculatedAt"`
}

// Bucket returns the credential's category bucket.
func (c Credential) Bucket() Bucket { return BucketFor(c.Category) }

// Earned is the timestamp used for year filtering: EarnedAt, else LastCalculatedAt.
func (c Credential) Earned() time.Time {
	if !c.EarnedAt.IsZero() {
		return c.EarnedAt
	}
	return c.LastCalculatedAt
}
