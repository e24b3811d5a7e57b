package handlers

import (
	"errors"
	"log"
	"time"

	"freshmarket/internal/nav"
	"freshmarket/internal/services"
	"freshmarket/internal/session"

	"github.com/gofiber/fiber/v2"
)

// CartLine is one grouped cart row joined with its catalog details.
type CartLine struct {
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	ImageURL     string  `json:"image_url"`
}

// ViewRenderer projects session state into the payload for the view
// the session is currently on. Every interaction ends by re-rendering
// through here, so a page is always a pure function of state.
type ViewRenderer struct {
	products  *services.ProductService
	orders    *services.OrderService
	recommend *services.RecommendService
	forecast  *services.ForecastService
	auth      *services.AuthService
}

// NewViewRenderer creates a new ViewRenderer.
func NewViewRenderer(products *services.ProductService, orders *services.OrderService, recommend *services.RecommendService, forecast *services.ForecastService, auth *services.AuthService) *ViewRenderer {
	return &ViewRenderer{
		products:  products,
		orders:    orders,
		recommend: recommend,
		forecast:  forecast,
		auth:      auth,
	}
}

// Render writes the JSON payload for the session's current view.
func (r *ViewRenderer) Render(c *fiber.Ctx, sess *session.Session) error {
	st := sess.State
	switch st.View {
	case nav.ViewLogin, nav.ViewRegistration:
		return c.JSON(fiber.Map{"view": st.View})
	case nav.ViewProducts:
		return r.renderCatalog(c, sess, "", st.CurrentPage)
	case nav.ViewSearch:
		return r.renderCatalog(c, sess, st.CustomerSearch, st.CurrentPage)
	case nav.ViewCart:
		return r.renderCart(c, sess)
	case nav.ViewCheckout:
		return r.renderCheckout(c, sess)
	case nav.ViewShoppingHistory:
		return r.renderHistory(c, sess)
	case nav.ViewRecommendedCart:
		return r.renderRecommended(c, sess)
	case nav.ViewProfile:
		return c.JSON(fiber.Map{"view": st.View, "username": st.Username})
	case nav.ViewManagerProducts:
		return r.renderManagerCatalog(c, sess)
	case nav.ViewAdminRegistration:
		return c.JSON(fiber.Map{"view": st.View})
	case nav.ViewManageCustomer:
		return r.renderManageCustomers(c, sess)
	case nav.ViewDemandForecasting:
		return r.renderForecast(c, sess)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Unknown view",
	})
}

func (r *ViewRenderer) renderCatalog(c *fiber.Ctx, sess *session.Session, query string, page int) error {
	st := sess.State
	catalog, err := r.products.GetCatalog()
	if err != nil {
		log.Printf("Error loading catalog: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load products",
		})
	}
	filtered := r.products.Filter(catalog, st.Category, query)
	productPage := r.products.Page(filtered, page)
	// The clamped page goes back into the cursor so Next past the end
	// cannot strand the session out of range.
	st.CurrentPage = productPage.Page
	return c.JSON(fiber.Map{
		"view":        st.View,
		"categories":  r.products.Categories(catalog),
		"category":    st.Category,
		"query":       query,
		"products":    productPage.Products,
		"page":        productPage.Page,
		"total_pages": productPage.TotalPages,
	})
}

func (r *ViewRenderer) renderManagerCatalog(c *fiber.Ctx, sess *session.Session) error {
	st := sess.State
	catalog, err := r.products.GetCatalog()
	if err != nil {
		log.Printf("Error loading catalog: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load products",
		})
	}
	filtered := r.products.Filter(catalog, st.Category, st.ManagerSearch)
	productPage := r.products.Page(filtered, st.ManagerCurrentPage)
	st.ManagerCurrentPage = productPage.Page
	return c.JSON(fiber.Map{
		"view":        st.View,
		"categories":  r.products.Categories(catalog),
		"category":    st.Category,
		"query":       st.ManagerSearch,
		"products":    productPage.Products,
		"page":        productPage.Page,
		"total_pages": productPage.TotalPages,
		"form_mode":   st.FormMode(),
		"edit_target": st.EditTarget,
	})
}

func (r *ViewRenderer) renderCart(c *fiber.Ctx, sess *session.Session) error {
	st := sess.State
	if st.Cart.IsEmpty() {
		return c.JSON(fiber.Map{"view": st.View, "warning": "Your cart is empty."})
	}
	return c.JSON(fiber.Map{"view": st.View, "items": r.cartLines(sess)})
}

func (r *ViewRenderer) cartLines(sess *session.Session) []CartLine {
	items := sess.State.Cart.Items()
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		line := CartLine{ProductName: item.ProductName, Quantity: item.Quantity}
		if p, err := r.products.GetByName(item.ProductName); err == nil {
			line.PricePerUnit = p.Price
			line.ImageURL = p.ImageURL
		}
		lines = append(lines, line)
	}
	return lines
}

func (r *ViewRenderer) renderCheckout(c *fiber.Ctx, sess *session.Session) error {
	st := sess.State
	summary, err := r.orders.Summarize(st.Cart)
	if errors.Is(err, services.ErrEmptyCart) {
		return c.JSON(fiber.Map{"view": st.View, "warning": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute checkout summary",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"view": st.View, "summary": summary})
}

func (r *ViewRenderer) renderHistory(c *fiber.Ctx, sess *session.Session) error {
	st := sess.State
	history, err := r.orders.History(st.Username)
	if err != nil {
		// Includes the dd/mm/yyyy parse failure, which aborts this
		// view's render as a page-level error.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load shopping history",
			"error":   err.Error(),
		})
	}
	if len(history) == 0 {
		return c.JSON(fiber.Map{"view": st.View, "warning": "You have no shopping history."})
	}
	return c.JSON(fiber.Map{"view": st.View, "orders": history})
}

func (r *ViewRenderer) renderRecommended(c *fiber.Ctx, sess *session.Session) error {
	st := sess.State
	recs, err := r.recommend.TopPicks(st.Username, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute recommendations",
			"error":   err.Error(),
		})
	}
	if len(recs) == 0 {
		return c.JSON(fiber.Map{
			"view":    st.View,
			"warning": "You need to make orders first to get a recommended cart!",
		})
	}
	// Viewing the panel fills the recommended cart with the predictions;
	// items the customer already adjusted keep their counts.
	for _, rec := range recs {
		if st.RecommendedCart.Count(rec.ProductName) == 0 {
			st.RecommendedCart.Add(rec.ProductName)
		}
	}
	return c.JSON(fiber.Map{
		"view":            st.View,
		"recommendations": recs,
		"items":           st.RecommendedCart.Items(),
	})
}

func (r *ViewRenderer) renderManageCustomers(c *fiber.Ctx, sess *session.Session) error {
	customers, err := r.auth.ListCustomers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load customers",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"view": sess.State.View, "customers": customers})
}

func (r *ViewRenderer) renderForecast(c *fiber.Ctx, sess *session.Session) error {
	report, err := r.forecast.Forecast()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute demand forecast",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"view": sess.State.View, "report": report})
}
