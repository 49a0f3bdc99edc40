package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/gateway"
	"storefront-service/internal/geo"
	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const sessionHeader = "X-Session-ID"

// Handler contains HTTP handlers
type Handler struct {
	catalog  *catalog.Catalog
	sessions *service.SessionManager
	checkout *service.CheckoutService
	gw       gateway.Gateway
	geocoder geo.Geocoder
}

// NewHandler creates a new HTTP handler
func NewHandler(
	cat *catalog.Catalog,
	sessions *service.SessionManager,
	checkout *service.CheckoutService,
	gw gateway.Gateway,
	geocoder geo.Geocoder,
) *Handler {
	return &Handler{
		catalog:  cat,
		sessions: sessions,
		checkout: checkout,
		gw:       gw,
		geocoder: geocoder,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/categories", h.listCategories)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addCartItem)
		v1.PUT("/cart/items", h.updateCartItem)
		v1.DELETE("/cart/items/:productId", h.removeCartItem)
		v1.DELETE("/cart", h.clearCart)

		v1.POST("/checkout/quote", h.quote)
		v1.POST("/checkout", h.createOrder)

		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/orders/:id/cancel", h.cancelOrder)

		v1.POST("/payment/order", h.createGatewayOrder)
		v1.POST("/payment/verify", h.verifyPayment)

		v1.POST("/wallet/connect", h.connectWallet)
		v1.POST("/wallet/disconnect", h.disconnectWallet)
		v1.GET("/wallet", h.getWallet)
		v1.POST("/wallet/send", h.walletSend)

		v1.GET("/geocode", h.geocode)
	}
}

func (h *Handler) session(c *gin.Context) *service.Session {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		id = "default"
	}
	return h.sessions.Get(id)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listProducts handles catalog browsing: category, search, price filter, sort
func (h *Handler) listProducts(c *gin.Context) {
	var products []models.Product
	if q := c.Query("q"); q != "" {
		products = h.catalog.Search(q)
	} else {
		products = h.catalog.ByCategory(c.Query("category"))
	}

	if minStr, maxStr := c.Query("min_price"), c.Query("max_price"); minStr != "" || maxStr != "" {
		min, _ := strconv.ParseInt(minStr, 10, 64)
		max, err := strconv.ParseInt(maxStr, 10, 64)
		if maxStr == "" || err != nil {
			max = int64(1) << 40
		}
		products = catalog.FilterByPrice(products, min, max)
	}

	products = catalog.Sort(products, c.Query("sort"))

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// getProduct handles product lookup by id
func (h *Handler) getProduct(c *gin.Context) {
	product, ok := h.catalog.ByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

func (h *Handler) getCart(c *gin.Context) {
	sess := h.session(c)
	c.JSON(http.StatusOK, gin.H{
		"lines":  sess.Cart.Lines(),
		"totals": sess.Cart.Totals(),
	})
}

type cartItemRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	VariantKey string `json:"variant_key"`
	Quantity   int    `json:"quantity" binding:"required"`
}

// addCartItem adds a line, merging with an existing line for the same
// product and variant
func (h *Handler) addCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		return
	}

	product, ok := h.catalog.ByID(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if !product.InStock {
		c.JSON(http.StatusConflict, gin.H{"error": "Product out of stock"})
		return
	}

	sess := h.session(c)
	sess.Cart.AddItem(models.CartLine{
		ProductID:  product.ID,
		VariantKey: req.VariantKey,
		Name:       product.Name,
		UnitPrice:  product.Price,
		Quantity:   req.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{"totals": sess.Cart.Totals()})
}

// updateCartItem sets a line quantity exactly; zero removes the line
func (h *Handler) updateCartItem(c *gin.Context) {
	var req struct {
		ProductID  string `json:"product_id" binding:"required"`
		VariantKey string `json:"variant_key"`
		Quantity   int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sess := h.session(c)
	sess.Cart.UpdateQuantity(req.ProductID, req.VariantKey, req.Quantity)
	c.JSON(http.StatusOK, gin.H{"totals": sess.Cart.Totals()})
}

func (h *Handler) removeCartItem(c *gin.Context) {
	sess := h.session(c)
	sess.Cart.RemoveItem(c.Param("productId"), c.Query("variant"))
	c.JSON(http.StatusOK, gin.H{"totals": sess.Cart.Totals()})
}

func (h *Handler) clearCart(c *gin.Context) {
	h.session(c).Cart.Clear()
	c.Status(http.StatusNoContent)
}

// quote previews pricing for a promo code and payment type
func (h *Handler) quote(c *gin.Context) {
	var req struct {
		PromoCode   string                   `json:"promo_code"`
		PaymentType models.PaymentMethodType `json:"payment_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.PaymentType == "" {
		req.PaymentType = models.PaymentTypeCard
	}

	sess := h.session(c)
	c.JSON(http.StatusOK, gin.H{"breakdown": h.checkout.Quote(sess, req.PromoCode, req.PaymentType)})
}

type checkoutRequest struct {
	Address       *models.Address       `json:"address"`
	PaymentMethod *models.PaymentMethod `json:"payment_method"`
	PromoCode     string                `json:"promo_code"`
}

// createOrder runs the checkout. Every failure leaves the cart intact.
func (h *Handler) createOrder(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sess := h.session(c)
	order, err := h.checkout.CreateOrder(c.Request.Context(), sess, &service.CreateOrderRequest{
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		PromoCode:     req.PromoCode,
	})
	if err != nil {
		status, code := checkoutErrorStatus(err)
		c.JSON(status, gin.H{"error": code, "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

func checkoutErrorStatus(err error) (int, string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusPaymentRequired, "insufficient_funds"
	case errors.Is(err, service.ErrPaymentDeclined):
		return http.StatusPaymentRequired, "payment_declined"
	default:
		return http.StatusBadGateway, "checkout_failed"
	}
}

func (h *Handler) listOrders(c *gin.Context) {
	sess := h.session(c)
	c.JSON(http.StatusOK, gin.H{"orders": h.checkout.ListOrders(sess)})
}

// getOrder renders an empty not-found state for unknown ids, never an error page
func (h *Handler) getOrder(c *gin.Context) {
	sess := h.session(c)
	order, found := h.checkout.GetOrder(sess, c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "order": nil})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) cancelOrder(c *gin.Context) {
	sess := h.session(c)
	order, err := h.checkout.CancelOrder(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, service.ErrIllegalTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Order can no longer be cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// createGatewayOrder wraps the payment gateway's order creation
func (h *Handler) createGatewayOrder(c *gin.Context) {
	var req struct {
		Amount    int64  `json:"amount" binding:"required"`
		Currency  string `json:"currency"`
		ReceiptID string `json:"receipt_id"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}
	if req.ReceiptID == "" {
		req.ReceiptID = uuid.New().String()
	}

	order, err := h.gw.CreateOrder(c.Request.Context(), req.Amount, req.Currency, req.ReceiptID, req.Notes)
	if err != nil {
		if errors.Is(err, gateway.ErrDeclined) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment_declined"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "gateway_error", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// verifyPayment checks the gateway signature; a mismatch means the
// payment stays unverified
func (h *Handler) verifyPayment(c *gin.Context) {
	var req struct {
		GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
		GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
		Signature        string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.checkout.VerifyPayment(c.Request.Context(), req.GatewayOrderID, req.GatewayPaymentID, req.Signature); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_signature"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"payment_id": req.GatewayPaymentID,
		"order_id":   req.GatewayOrderID,
	})
}

func (h *Handler) connectWallet(c *gin.Context) {
	sess := h.session(c)
	sess.Wallet.Connect(c.Request.Context())
	h.getWallet(c)
}

func (h *Handler) disconnectWallet(c *gin.Context) {
	sess := h.session(c)
	sess.Wallet.Disconnect(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *Handler) getWallet(c *gin.Context) {
	sess := h.session(c)
	c.JSON(http.StatusOK, gin.H{
		"connected":    sess.Wallet.Connected(),
		"address":      sess.Wallet.Address(),
		"balance":      sess.Wallet.Balance(),
		"transactions": sess.Wallet.Transactions(),
	})
}

// walletSend debits the wallet; insufficient balance is a refusal, not
// a server fault
func (h *Handler) walletSend(c *gin.Context) {
	var req struct {
		To          string `json:"to" binding:"required"`
		Amount      string `json:"amount" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	sess := h.session(c)
	if !sess.Wallet.Send(c.Request.Context(), req.To, amount, req.Description) {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"success": false,
			"error":   "insufficient_funds",
			"balance": sess.Wallet.Balance(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "balance": sess.Wallet.Balance()})
}

// geocode resolves a query or coordinates; failures degrade to manual
// address entry instead of blocking checkout
func (h *Handler) geocode(c *gin.Context) {
	ctx := c.Request.Context()

	var result *geo.Result
	var err error
	if q := c.Query("q"); q != "" {
		result, err = h.geocoder.Geocode(ctx, q)
	} else {
		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
		if latErr != nil || lngErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provide q or lat/lng"})
			return
		}
		result, err = h.geocoder.ReverseGeocode(ctx, lat, lng)
	}

	if err != nil {
		c.JSON(http.StatusOK, gin.H{"manual_entry": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"manual_entry": false, "result": result})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
