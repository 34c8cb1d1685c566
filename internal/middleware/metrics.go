package middleware

import (
	"net/http"
	"time"
)

// HTTPStatusRecorder はHTTPステータスコードとレイテンシの計上に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type HTTPStatusRecorder interface {
	RecordHTTPStatus(statusCode int)
	RecordHTTPDuration(duration time.Duration)
}

// NewMetricsMiddleware はレスポンスのステータスコードと処理時間をメトリクスに
// 計上するミドルウェアを返す。
func NewMetricsMiddleware(recorder HTTPStatusRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			start := time.Now()
			next.ServeHTTP(rec, r)
			recorder.RecordHTTPStatus(rec.statusCode)
			recorder.RecordHTTPDuration(time.Since(start))
		})
	}
}
