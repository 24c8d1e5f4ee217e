package http

import (
	"net/http"

	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	exportUsecase  usecase.CatalogExportUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, exportUsecase usecase.CatalogExportUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, exportUsecase: exportUsecase, logger: logger}
}

type createProductRequest struct {
	ProductCategoryID string `json:"productCategoryId" validate:"required,uuid"`
	Name              string `json:"name" validate:"required,max=256"`
	Brand             string `json:"brand" validate:"max=256"`
	Description       string `json:"description" validate:"max=4000"`
	ImageURL          string `json:"imageUrl" validate:"omitempty,url"`
}

type updateProductRequest struct {
	ProductCategoryID string  `json:"productCategoryId" validate:"required,uuid"`
	Name              *string `json:"name" validate:"omitempty,min=1,max=256"`
	Brand             *string `json:"brand" validate:"omitempty,max=256"`
	Description       *string `json:"description" validate:"omitempty,max=4000"`
	ImageURL          *string `json:"imageUrl" validate:"omitempty,url"`
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создаёт товар в существующей категории
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		createProductRequest	true	"Товар"
//	@Success		201		{object}	usecase.ActionResult
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		422		{object}	ErrorResponse	"Категория не найдена"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body createProductRequest
	if err := decodeBody(w, r, &body); err != nil {
		p.logger.Warnf("%d create product: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.CreateProduct(r.Context(), &usecase.CreateProductReq{
		ProductCategoryID: uuid.MustParse(body.ProductCategoryID),
		Name:              body.Name,
		Brand:             body.Brand,
		Description:       body.Description,
		ImageURL:          body.ImageURL,
	})
	if err != nil {
		p.writeUsecaseError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, res)
}

// getProducts
//
//	@Summary		Список товаров
//	@Description	Все неудалённые товары. С pageSize или pageIndex возвращает одну страницу
//	@Tags			products
//	@Produce		json
//	@Param			pageSize	query		int	false	"Размер страницы"
//	@Param			pageIndex	query		int	false	"Номер страницы с нуля"
//	@Success		200			{object}	usecase.ActionResult
//	@Failure		400			{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	page, paginated, err := parsePageQuery(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var res *usecase.ActionResult
	if paginated {
		res, err = p.productUsecase.GetPaginatedProducts(r.Context(), usecase.BasePaginatedReq{
			PageSize:  page.PageSize,
			PageIndex: page.PageIndex,
		})
	} else {
		res, err = p.productUsecase.GetAllProducts(r.Context())
	}
	if err != nil {
		p.writeUsecaseError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}

// getProduct
//
//	@Summary		Карточка товара
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"ID товара"
//	@Success		200	{object}	usecase.ActionResult
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.writeUsecaseError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Переданные поля перезаписываются, отсутствующие остаются прежними
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"ID товара"
//	@Param			product	body		updateProductRequest	true	"Изменения"
//	@Success		200		{object}	usecase.ActionResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var body updateProductRequest
	if err = decodeBody(w, r, &body); err != nil {
		p.logger.Warnf("%d update product: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.UpdateProduct(r.Context(), &usecase.UpdateProductReq{
		ProductCategoryID: uuid.MustParse(body.ProductCategoryID),
		Name:              body.Name,
		Brand:             body.Brand,
		Description:       body.Description,
		ImageURL:          body.ImageURL,
	}, id)
	if err != nil {
		p.writeUsecaseError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	usecase.ActionResult
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.DeleteProduct(r.Context(), id)
	if err != nil {
		p.writeUsecaseError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}

// exportSnapshot
//
//	@Summary		Выгрузка каталога
//	@Description	Сохраняет JSON со всеми неудалёнными товарами в объектное хранилище
//	@Tags			products
//	@Produce		json
//	@Success		201	{object}	usecase.ActionResult
//	@Failure		500	{object}	ErrorResponse
//	@Router			/products/snapshots [post]
func (p *ProductHandler) exportSnapshot(w http.ResponseWriter, r *http.Request) {
	res, err := p.exportUsecase.ExportSnapshot(r.Context())
	if err != nil {
		p.writeUsecaseError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, res)
}

// writeUsecaseError пишет ответ и логирует: 5xx как ошибку, остальное как предупреждение.
func (p *ProductHandler) writeUsecaseError(w http.ResponseWriter, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		p.logger.Errorf(err, "request failed")
	} else {
		p.logger.Warnf("%d %s", code, err.Error())
	}

	WriteError(w, err)
}
