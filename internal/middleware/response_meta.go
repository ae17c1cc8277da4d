package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talent-factory-api/pkg/middleware/requestid"
)

const responseMetaKey = "response_meta"

type responseMeta struct {
	start  time.Time
	values map[string]interface{}
}

// WithResponseMeta starts the clock used for processing_time_ms and opens a
// per-request bag that handlers fill before rendering the envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, &responseMeta{start: time.Now(), values: map[string]interface{}{}})
		c.Next()
	}
}

// SetCacheHit flags whether the catalog payload was served from Redis.
func SetCacheHit(c *gin.Context, hit bool) {
	metaFor(c).values["cache_hit"] = hit
}

// SetMeta attaches an arbitrary key to the envelope meta block.
func SetMeta(c *gin.Context, key string, value interface{}) {
	metaFor(c).values[key] = value
}

// ExtractMeta snapshots the meta block for rendering. Timing and the request
// id are filled in at call time, so it must be called just before writing.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	meta := metaFor(c)
	out := make(map[string]interface{}, len(meta.values)+2)
	for k, v := range meta.values {
		out[k] = v
	}
	out["processing_time_ms"] = time.Since(meta.start).Milliseconds()
	if c.Request != nil {
		if id := requestid.FromContext(c.Request.Context()); id != "" {
			out["request_id"] = id
		}
	}
	return out
}

func metaFor(c *gin.Context) *responseMeta {
	if raw, ok := c.Get(responseMetaKey); ok {
		if meta, ok := raw.(*responseMeta); ok {
			return meta
		}
	}
	meta := &responseMeta{start: time.Now(), values: map[string]interface{}{}}
	c.Set(responseMetaKey, meta)
	return meta
}
