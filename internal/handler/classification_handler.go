package handler

import (
	"github.com/gin-gonic/gin"

	"crossquote/internal/domain"
	"crossquote/internal/service"
)

// ClassificationHandler handles HS code classification endpoints.
type ClassificationHandler struct {
	classificationService service.ClassificationService
}

// NewClassificationHandler creates a new ClassificationHandler.
func NewClassificationHandler(classificationService service.ClassificationService) *ClassificationHandler {
	return &ClassificationHandler{classificationService: classificationService}
}

// Classify handles POST /api/v1/classifications
// @Summary      Classify a product
// @Description  Returns ranked HS code candidates and the recommended code for a product description
// @Tags         classification
// @Accept       json
// @Produce      json
// @Param        body body domain.ProductDescriptor true "Product to classify"
// @Success      200 {object} APIResponse{data=service.ClassificationResult}
// @Failure      400 {object} APIResponse
// @Failure      503 {object} APIResponse
// @Router       /classifications [post]
func (h *ClassificationHandler) Classify(c *gin.Context) {
	var p domain.ProductDescriptor
	if err := c.ShouldBindJSON(&p); err != nil {
		HandleError(c, bindingError(err))
		return
	}

	res, err := h.classificationService.Classify(c.Request.Context(), p)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// ValidateCode handles POST /api/v1/hs-codes/validate
// @Summary      Validate an HS code
// @Description  Checks the code's shape and chapter and whether the catalog knows it
// @Tags         classification
// @Accept       json
// @Produce      json
// @Param        body body ValidateCodeRequest true "Code to validate"
// @Success      200 {object} APIResponse{data=domain.FormatValidation}
// @Failure      400 {object} APIResponse
// @Router       /hs-codes/validate [post]
func (h *ClassificationHandler) ValidateCode(c *gin.Context) {
	var req ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, bindingError(err))
		return
	}

	v, err := h.classificationService.ValidateCode(c.Request.Context(), req.Code)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, v)
}

// RegisterMapping handles POST /api/v1/hs-codes/mappings
// @Summary      Register a custom mapping
// @Description  Binds a keyword or phrase to an HS code. The mapping is persisted and survives catalog refreshes.
// @Tags         classification
// @Accept       json
// @Produce      json
// @Param        body body domain.CustomMapping true "Mapping to register"
// @Success      201 {object} APIResponse{data=domain.CustomMapping}
// @Failure      400 {object} APIResponse
// @Failure      503 {object} APIResponse
// @Router       /hs-codes/mappings [post]
func (h *ClassificationHandler) RegisterMapping(c *gin.Context) {
	var m domain.CustomMapping
	if err := c.ShouldBindJSON(&m); err != nil {
		HandleError(c, bindingError(err))
		return
	}

	registered, err := h.classificationService.RegisterMapping(c.Request.Context(), m)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, registered)
}
