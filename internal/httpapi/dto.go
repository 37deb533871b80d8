package httpapi

import (
	"time"

	"github.com/nikolayk812/cartstore-demo/internal/notify"
	"github.com/nikolayk812/cartstore-demo/internal/service"
	"github.com/nikolayk812/cartstore-demo/internal/view"
)

type productDTO struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Price          string `json:"price"`
	PriceFormatted string `json:"price_formatted"`
	Currency       string `json:"currency"`
	Image          string `json:"image"`
}

type catalogEntryDTO struct {
	productDTO
	InCart int `json:"in_cart"`
}

type cartRowDTO struct {
	productDTO
	Amount            int    `json:"amount"`
	Subtotal          string `json:"subtotal"`
	SubtotalFormatted string `json:"subtotal_formatted"`
	CanDecrement      bool   `json:"can_decrement"`
}

type cartPageDTO struct {
	Items          []cartRowDTO `json:"items"`
	Total          string       `json:"total"`
	TotalFormatted string       `json:"total_formatted"`
}

type intentResponseDTO struct {
	Changed   bool        `json:"changed"`
	ErrorKind string      `json:"error_kind,omitempty"`
	Cart      cartPageDTO `json:"cart"`
}

type updateAmountRequestDTO struct {
	Amount *int `json:"amount"`
}

type notificationDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type errorResponseDTO struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func mapCatalogToDTO(entries []view.CatalogEntry) []catalogEntryDTO {
	out := make([]catalogEntryDTO, 0, len(entries))

	for _, e := range entries {
		out = append(out, catalogEntryDTO{
			productDTO: productDTO{
				ID:             e.Product.ID,
				Title:          e.Product.Title,
				Price:          e.Product.Price.Amount.String(),
				PriceFormatted: e.PriceFormatted,
				Currency:       e.Product.Price.Currency.String(),
				Image:          e.Product.Image,
			},
			InCart: e.InCart,
		})
	}

	return out
}

func mapCartPageToDTO(page view.CartPage) cartPageDTO {
	items := make([]cartRowDTO, 0, len(page.Rows))

	for _, row := range page.Rows {
		p := row.Item.Product

		items = append(items, cartRowDTO{
			productDTO: productDTO{
				ID:             p.ID,
				Title:          p.Title,
				Price:          p.Price.Amount.String(),
				PriceFormatted: row.PriceFormatted,
				Currency:       p.Price.Currency.String(),
				Image:          p.Image,
			},
			Amount:            row.Item.Amount,
			Subtotal:          row.Subtotal.String(),
			SubtotalFormatted: row.SubtotalFormatted,
			CanDecrement:      row.CanDecrement,
		})
	}

	return cartPageDTO{
		Items:          items,
		Total:          page.Total.Amount.String(),
		TotalFormatted: page.TotalFormatted,
	}
}

func mapOutcomeToDTO(outcome service.Outcome, f view.Formatter) intentResponseDTO {
	resp := intentResponseDTO{
		Changed: outcome.Changed,
		Cart:    mapCartPageToDTO(view.Cart(outcome.Cart, f)),
	}

	if outcome.Failed() {
		resp.ErrorKind = outcome.Kind.String()
	}

	return resp
}

func mapNotificationsToDTO(ns []notify.Notification) []notificationDTO {
	out := make([]notificationDTO, 0, len(ns))

	for _, n := range ns {
		out = append(out, notificationDTO{
			ID:        n.ID.String(),
			Kind:      n.Kind.String(),
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}

	return out
}
