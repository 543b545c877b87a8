package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crossquote/internal/domain"
	"crossquote/internal/quoteexport"
	"crossquote/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// QuoteHandler handles quote and logistics endpoints.
type QuoteHandler struct {
	quoteService service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Create handles POST /api/v1/quotes
// @Summary      Compute a landed-cost quote
// @Description  Classifies every cart line, computes duty and VAT for the destination and ranks shipping options. On failure the degraded empty quote is returned in data.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body body QuoteRequestBody true "Cart, destination and preferences"
// @Success      200 {object} APIResponse{data=domain.Quote}
// @Failure      400 {object} APIResponse{data=domain.Quote}
// @Failure      503 {object} APIResponse{data=domain.Quote}
// @Router       /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req domain.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithData(c, bindingError(err), domain.EmptyQuote(req.Destination))
		return
	}

	quote, err := h.quoteService.Quote(c.Request.Context(), &req)
	if err != nil {
		respondWithData(c, err, quote)
		return
	}
	RespondOK(c, quote)
}

// Export handles POST /api/v1/quotes/export
// @Summary      Export a quote
// @Description  Computes a quote and returns it as a CSV or XLSX download
// @Tags         quotes
// @Accept       json
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Param        body body QuoteRequestBody true "Cart, destination and preferences"
// @Success      200 {file} file
// @Failure      400 {object} APIResponse
// @Failure      503 {object} APIResponse
// @Router       /quotes/export [post]
func (h *QuoteHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		HandleError(c, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format))
		return
	}

	var req domain.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, bindingError(err))
		return
	}

	quote, err := h.quoteService.Quote(c.Request.Context(), &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		contentType = xlsxContentType
		err = quoteexport.WriteWorkbook(&buf, quote)
	} else {
		buf.Write(quoteexport.BOM)
		w := quoteexport.NewWriter(&buf)
		err = w.WriteQuote(quote)
		w.Flush()
		if err == nil {
			err = w.Error()
		}
	}
	if err != nil {
		HandleError(c, fmt.Errorf("rendering %s export: %w", format, err))
		return
	}

	filename := quoteexport.BuildFilename(quote.ID, quote.Destination.CountryCode, format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ShippingOptions handles POST /api/v1/logistics/options
// @Summary      Rank shipping options
// @Description  Scores every carrier service able to carry the package to the destination
// @Tags         logistics
// @Accept       json
// @Produce      json
// @Param        body body ShippingOptionsRequest true "Package and preferences"
// @Success      200 {object} APIResponse{data=[]domain.ShippingOption}
// @Failure      400 {object} APIResponse
// @Failure      503 {object} APIResponse
// @Router       /logistics/options [post]
func (h *QuoteHandler) ShippingOptions(c *gin.Context) {
	var req ShippingOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, bindingError(err))
		return
	}

	pkg := req.Package
	if req.Destination != "" {
		pkg.Destination = req.Destination
	}
	options, err := h.quoteService.ShippingOptions(c.Request.Context(), &service.ShippingRequest{
		Package:     pkg,
		Preferences: req.Preferences,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, options)
}
