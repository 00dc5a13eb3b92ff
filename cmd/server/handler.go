package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"b2b-market-scraper/internal/analysis"
	"b2b-market-scraper/internal/app"
	"b2b-market-scraper/internal/cleaner"
	"b2b-market-scraper/internal/dedup"
	"b2b-market-scraper/internal/ioformats"
	"b2b-market-scraper/internal/parser"
	"b2b-market-scraper/internal/scrape"
)

const (
	maxHTMLBytes  = 10 << 20
	maxCrawlURLs  = 50
	maxUploadSize = 32 << 20
)

type handler struct {
	app    *app.App
	parser *parser.Parser
	runner *scrape.Runner
}

func newHandler(a *app.App) *handler {
	return &handler{app: a, parser: parser.New(), runner: a.Runner(0)}
}

func errorJSON(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "marketplace": h.app.Market.Name()})
}

// POST /extract?source=<url>&category=<label> with an HTML body.
func (h *handler) extract(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxHTMLBytes))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		errorJSON(c, http.StatusBadRequest, "html body required")
		return
	}
	doc, err := h.parser.ParseBytes(body, c.GetHeader("Content-Type"))
	if err != nil {
		errorJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	source, category := c.Query("source"), c.Query("category")
	c.JSON(http.StatusOK, gin.H{
		"title":   doc.Title,
		"records": h.app.Market.Records(c.Request.Context(), doc.Doc, source, category),
		"links":   h.app.Market.ListingLinks(doc.Doc),
	})
}

type crawlReq struct {
	URLs     []string `json:"urls"`
	Category string   `json:"category"`
}

// POST /crawl {"urls": [...], "category": "..."}
func (h *handler) crawl(c *gin.Context) {
	var req crawlReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.URLs) == 0 {
		errorJSON(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(req.URLs) > maxCrawlURLs {
		errorJSON(c, http.StatusBadRequest, "too many urls")
		return
	}
	run, err := h.runner.Run(c.Request.Context(), req.Category, req.URLs)
	if err != nil {
		errorJSON(c, http.StatusGatewayTimeout, err.Error())
		return
	}
	c.JSON(http.StatusOK, run)
}

// POST /crawl/upload (multipart file=..., category=...) streams one NDJSON
// page result per URL in the uploaded seed list.
func (h *handler) crawlUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fh, err := c.FormFile("file")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "file part 'file' required")
		return
	}
	// copy to a temp file with the original extension so the seed reader
	// can pick the format
	tmp, err := os.CreateTemp("", "seeds-*"+extOf(fh.Filename))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "temp file error")
		return
	}
	tmp.Close()
	defer os.Remove(tmp.Name())
	if err := c.SaveUploadedFile(fh, tmp.Name()); err != nil {
		errorJSON(c, http.StatusInternalServerError, "copy error")
		return
	}
	urls, err := ioformats.ReadURLs(tmp.Name())
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	category := c.PostForm("category")
	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)
	enc := json.NewEncoder(c.Writer)
	for _, u := range urls {
		if c.Request.Context().Err() != nil {
			return
		}
		_ = enc.Encode(h.runner.Page(c.Request.Context(), u, category))
		c.Writer.Flush()
	}
}

type cleanReq struct {
	Records    json.RawMessage `json:"records"`
	Similarity bool            `json:"similarity"`
	Threshold  float64         `json:"threshold"`
	Analyze    bool            `json:"analyze"`
}

// POST /clean {"records": [...], "similarity": bool}
func (h *handler) clean(c *gin.Context) {
	var req cleanReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Records) == 0 {
		errorJSON(c, http.StatusBadRequest, "invalid payload")
		return
	}
	tbl, err := ioformats.DecodeJSON(bytes.NewReader(req.Records))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	tbl, rep, err := h.app.Cleaner().Clean(tbl)
	if errors.Is(err, cleaner.ErrEmptyDataset) {
		errorJSON(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	if req.Similarity {
		opts, err := h.app.DedupOptions(req.Threshold)
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, err.Error())
			return
		}
		dedup.Flag(tbl, opts)
	}

	var rows bytes.Buffer
	if err := ioformats.EncodeJSON(&rows, tbl); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	resp := gin.H{"records": json.RawMessage(rows.Bytes()), "report": rep}
	if req.Analyze {
		resp["insights"] = analysis.Analyze(tbl)
	}
	c.JSON(http.StatusOK, resp)
}

func extOf(name string) string {
	return filepath.Ext(filepath.Base(name))
}
