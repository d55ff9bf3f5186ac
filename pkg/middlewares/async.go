package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/StudyHub/internal/utils"
)

// AsyncMiddleware 异步处理中间件
// 将请求的处理逻辑提交到 Worker Pool 中执行，严格控制并发处理的请求数量。
// 队列有缓冲，超出处理能力的请求排队等待而不是被拒绝。
func AsyncMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 没有初始化 Worker Pool 时直接降级为同步执行
		if utils.GlobalWorkerPool == nil {
			c.Next()
			return
		}

		done := make(chan struct{})

		// gin.Context 不是线程安全的，但主 Goroutine 阻塞在 <-done，
		// 同一时间只有 Worker 在操作 c，因此是安全的
		task := func() {
			defer close(done)
			c.Next()
		}

		utils.GlobalWorkerPool.Submit(task)

		<-done
	}
}
