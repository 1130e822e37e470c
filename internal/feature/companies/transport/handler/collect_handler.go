// Package handler はcompaniesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"finance_collector/internal/feature/companies/domain/entity"
	"finance_collector/internal/feature/companies/transport/http/dto"
	"finance_collector/internal/feature/companies/usecase"
)

const (
	statusRunning = "running"
	statusSuccess = "success"
	statusError   = "error"

	msgOperational   = "Finance data collector is operational"
	msgCollectOK     = "Data collection triggered successfully"
	msgCollectFailed = "Failed to collect data"
	msgNoRunRecorded = "No collection run recorded yet"
	msgStatusFailed  = "Failed to load collection status"
	msgInvalidPaging = "limit and offset must be non-negative integers"
	msgListFailed    = "Failed to list companies"
)

// CollectUsecase は収集処理のユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type CollectUsecase interface {
	CollectAll(ctx context.Context, trigger entity.Trigger) (entity.RunSummary, error)
	LastRun(ctx context.Context) (entity.RunSummary, error)
}

// CompanyLister は保存済みの会社一覧を返すユースケースのインターフェースです。
type CompanyLister interface {
	List(ctx context.Context, limit, offset int) (usecase.CompanyPage, error)
}

// CollectHandler は収集トリガーと状態確認のHTTPリクエストを処理します。
type CollectHandler struct {
	uc     CollectUsecase
	lister CompanyLister
}

// NewCollectHandler は新しい CollectHandler を作成します。
func NewCollectHandler(uc CollectUsecase, lister CompanyLister) *CollectHandler {
	return &CollectHandler{uc: uc, lister: lister}
}

// Root はサービスの稼働状態を返します。
func (h *CollectHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{Status: statusRunning, Message: msgOperational})
}

// Collect は全マーケットグループの収集を同期的に実行します。
// いずれかのグループが失敗した場合は 500 を返します。詳細はログと /collect/status で確認できます。
// 呼び出し元が切断しても収集は最後まで続けます。
func (h *CollectHandler) Collect(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	if _, err := h.uc.CollectAll(ctx, entity.TriggerManual); err != nil {
		slog.Error("manual collection failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: statusError, Message: msgCollectFailed})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: statusSuccess, Message: msgCollectOK})
}

// Status は直近の収集結果を返します。まだ実行されていない場合は 404 を返します。
func (h *CollectHandler) Status(c *gin.Context) {
	s, err := h.uc.LastRun(c.Request.Context())
	if errors.Is(err, usecase.ErrRunStatusNotFound) {
		c.JSON(http.StatusNotFound, dto.StatusResponse{Status: statusError, Message: msgNoRunRecorded})
		return
	}
	if err != nil {
		slog.Error("failed to load run status", "error", err)
		c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: statusError, Message: msgStatusFailed})
		return
	}
	c.JSON(http.StatusOK, dto.FromRunSummary(s))
}

// List は保存済みの会社一覧を返します。クエリ: limit, offset。
func (h *CollectHandler) List(c *gin.Context) {
	limit, err1 := queryInt(c, "limit")
	offset, err2 := queryInt(c, "offset")
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, dto.StatusResponse{Status: statusError, Message: msgInvalidPaging})
		return
	}

	page, err := h.lister.List(c.Request.Context(), limit, offset)
	if err != nil {
		slog.Error("failed to list companies", "error", err)
		c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: statusError, Message: msgListFailed})
		return
	}

	out := dto.CompanyList{
		Total:     page.Total,
		Limit:     page.Limit,
		Offset:    page.Offset,
		Companies: make([]dto.CompanyItem, 0, len(page.Companies)),
	}
	for _, co := range page.Companies {
		out.Companies = append(out.Companies, dto.CompanyItem{
			Symbol:  co.Symbol,
			Name:    co.Name,
			Country: co.CountryCode,
			Sector:  co.Sector,
			Market:  co.Market,
		})
	}
	c.JSON(http.StatusOK, out)
}

// queryInt は省略時に 0 を返します。負の値はエラーです。
func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
