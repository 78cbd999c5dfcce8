package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"listingsheet/internal/pipeline"
)

const source = "http"

const emptyInputMessage = "Please paste some text to process."

type processReq struct {
	Text string `json:"text" form:"text"`
}

type previewResp struct {
	TraceID       string     `json:"trace_id"`
	Columns       []string   `json:"columns"`
	Rows          [][]string `json:"rows"`
	SuspectPhones int        `json:"suspect_phones"`
}

func processHandler(proc *pipeline.ProcessingService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req processReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		res, err := proc.Process(c.Request().Context(), pipeline.Request{Source: source, Text: req.Text})
		if err != nil {
			return processError(c, res.TraceID, err)
		}

		return c.JSON(http.StatusOK, previewResp{
			TraceID:       res.TraceID,
			Columns:       res.Table.Headers(),
			Rows:          res.Table.Rows(),
			SuspectPhones: res.SuspectPhones,
		})
	}
}

func exportHandler(proc *pipeline.ProcessingService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req processReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		res, err := proc.Process(c.Request().Context(), pipeline.Request{Source: source, Text: req.Text})
		if err != nil {
			return processError(c, res.TraceID, err)
		}

		var buf bytes.Buffer
		if err := pipeline.WriteTableXLSX(&buf, res.Table, proc.LinkLabel()); err != nil {
			zap.L().Error("http: export failed", zap.String("trace_id", res.TraceID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "export failed"})
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+pipeline.DefaultFileName+`"`)
		return c.Blob(http.StatusOK, pipeline.XLSXContentType, buf.Bytes())
	}
}

func processError(c echo.Context, traceID string, err error) error {
	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": emptyInputMessage})
	case errors.Is(err, pipeline.ErrNoRecords):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	zap.L().Error("http: process failed", zap.String("trace_id", traceID), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "processing failed"})
}
