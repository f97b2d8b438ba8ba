package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	fvctx "github.com/yeisme/filevault/pkg/context"
	kvc "github.com/yeisme/filevault/pkg/internal/storage/kv"
)

const timeout = 2 * time.Second

// checker 组件健康检查，返回 nil 表示健康.
type checker func(ctx context.Context) error

func probe(c *gin.Context, component string) (checker, bool) {
	mgr := fvctx.GetManager(c.Request.Context())
	if mgr == nil {
		return nil, false
	}

	switch component {
	case "db":
		if mgr.DB != nil {
			return mgr.DB.HealthCheck, true
		}
	case "s3":
		if mgr.S3 != nil {
			return mgr.S3.HealthCheck, true
		}
	case "kv":
		if mgr.KV != nil {
			return func(ctx context.Context) error { return kvc.HealthCheck(ctx, mgr.KV) }, true
		}
	case "mq":
		if mgr.MQ != nil {
			return mgr.MQ.HealthCheck, true
		}
	}

	return nil, false
}

func check(c *gin.Context, component string) (int, gin.H) {
	fn, ok := probe(c, component)
	if !ok {
		return http.StatusServiceUnavailable, gin.H{"component": component, "status": "unhealthy", "error": component + " client not initialized"}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		return http.StatusServiceUnavailable, gin.H{"component": component, "status": "unhealthy", "error": err.Error()}
	}

	return http.StatusOK, gin.H{"component": component, "status": "ok"}
}

// Health 汇总所有组件的健康状态.
//
//	@Summary	健康检查
//	@Tags		健康
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Failure	503	{object}	map[string]any
//	@Router		/api/v1/health [get]
func Health(c *gin.Context) {
	status := http.StatusOK
	components := gin.H{}

	for _, name := range []string{"db", "s3", "kv", "mq"} {
		code, body := check(c, name)
		if code != http.StatusOK {
			status = http.StatusServiceUnavailable
		}

		components[name] = body["status"]
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{"status": overall, "components": components})
}

// HealthDB 数据库健康检查.
func HealthDB(c *gin.Context) { c.JSON(check(c, "db")) }

// HealthS3 对象存储健康检查.
func HealthS3(c *gin.Context) { c.JSON(check(c, "s3")) }

// HealthKV KV 存储健康检查.
func HealthKV(c *gin.Context) { c.JSON(check(c, "kv")) }

// HealthMQ 消息队列健康检查.
func HealthMQ(c *gin.Context) { c.JSON(check(c, "mq")) }
