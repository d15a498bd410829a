package keys

import (
	"crypto/md5"
	"fmt"
	"strings"
)

const (
	// PfxHealthCheck is used for prefixing health check redis key
	PfxHealthCheck = "healthcheck"
	// PfxAuctionCache is used for prefixing cached auction reads
	PfxAuctionCache = "auctionCache"
	// PfxFeedCache is used for prefixing cached price feed reads
	PfxFeedCache = "feedCache"
	// PfxHttpCache is used for prefixing cached http responses
	PfxHttpCache = "httpCache"
)

// MD5 hashes the data with md5
func MD5(data string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(data)))
}

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// GetPrefix returns the leading component of a redis key, for metrics tagging
func GetPrefix(key string) string {
	if idx := strings.Index(key, ":"); idx != -1 {
		return key[:idx]
	}
	return key
}
