package objectstore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/caminho-companion/api/internal/config"
)

// Client produces pre-signed URLs against the object store holding profile
// photos and verification documents. The store itself is an external
// collaborator; only upload/retrieval URLs are minted here.
type Client struct {
	endpoint   string
	bucket     string
	accessKey  string
	signingKey []byte
}

func NewClient(conf *config.ObjectStoreConfig) *Client {
	return &Client{
		endpoint:   conf.Endpoint,
		bucket:     conf.Bucket,
		accessKey:  conf.AccessKey,
		signingKey: []byte(conf.SigningKey),
	}
}

func (c *Client) sign(method, objectPath string, expires int64) string {
	mac := hmac.New(sha256.New, c.signingKey)
	fmt.Fprintf(mac, "%s\n%s/%s\n%d", method, c.bucket, objectPath, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedUploadURL mints a PUT URL the browser can upload a blob to directly.
func (c *Client) SignedUploadURL(objectPath string, expiresIn time.Duration) string {
	expires := time.Now().Add(expiresIn).Unix()
	signature := c.sign("PUT", objectPath, expires)

	return fmt.Sprintf("%s/%s/%s?key=%s&expires=%d&signature=%s",
		c.endpoint, c.bucket, objectPath, c.accessKey, expires, signature)
}

// SignedRetrievalURL mints a time-limited GET URL for private objects such
// as verification documents.
func (c *Client) SignedRetrievalURL(objectPath string, expiresIn time.Duration) string {
	expires := time.Now().Add(expiresIn).Unix()
	signature := c.sign("GET", objectPath, expires)

	return fmt.Sprintf("%s/%s/%s?key=%s&expires=%d&signature=%s",
		c.endpoint, c.bucket, objectPath, c.accessKey, expires, signature)
}

// PublicURL is the stable retrieval path for world-readable objects such as
// profile photos.
func (c *Client) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucket, objectPath)
}
