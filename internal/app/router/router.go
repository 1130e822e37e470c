package router

import (
	"github.com/gin-gonic/gin"

	companieshandler "finance_collector/internal/feature/companies/transport/handler"
	jwtmw "finance_collector/internal/platform/jwt"
)

// NewRouter はHTTPルーティングを構築します。
// collectSecret が空でない場合、収集トリガーと状態確認は Bearer トークンが必要になります。
func NewRouter(companies *companieshandler.CollectHandler, health gin.HandlerFunc, collectSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 認証不要
	// 稼働確認
	r.GET("/", companies.Root)
	// 導通確認用（DB・Redis の疎通を含む）
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	// 保存済みの会社一覧
	r.GET("/companies", companies.List)

	// 手動トリガー
	collect := r.Group("/collect")
	collect.Use(jwtmw.Optional(collectSecret))
	{
		collect.GET("", companies.Collect)
		collect.GET("/status", companies.Status)
	}

	return r
}
