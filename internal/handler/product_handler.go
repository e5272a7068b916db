package handler

import (
	"strconv"

	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) List(c *gin.Context) {
	params := repository.ProductListParams{
		Keyword:    c.Query("keyword"),
		CategoryID: c.Query("category_id"),
	}
	if raw := c.Query("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			BadRequest(c, "in_stock: ожидается true или false")
			return
		}
		params.InStock = inStock
	}
	products, err := h.svc.List(GetUserID(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, products)
}

// Create produces a batch: consumes materials and tool wear, prices the
// unit cost and stores the product, all in one transaction. Costing
// warnings ride along in the response.
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	product, warnings, err := h.svc.Create(GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, gin.H{"product": product, "warnings": warnings})
}

// CostPreview prices a prospective batch without creating it.
func (h *ProductHandler) CostPreview(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	result, err := h.svc.CostPreview(GetUserID(c), req.CategoryID, req.Materials, req.QuantityCreated)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, result)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.svc.Get(GetUserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	product, err := h.svc.Update(GetUserID(c), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(GetUserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, categories)
}

func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req service.ProductCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	cat, err := h.svc.CreateCategory(GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, cat)
}

func (h *ProductHandler) UpdateCategory(c *gin.Context) {
	var req service.ProductCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	cat, err := h.svc.UpdateCategory(GetUserID(c), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, cat)
}

// CategoryInventory lists the tool ids linked to a product category.
func (h *ProductHandler) CategoryInventory(c *gin.Context) {
	ids, err := h.svc.ListCategoryInventory(GetUserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, ids)
}

func (h *ProductHandler) DeleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(GetUserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}
