package purchases

import (
	"boxoffice/internal/tickets"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PurchaseRequest is the body of POST /purchases.
// account_id may be a JSON number or a numeric string.
type PurchaseRequest struct {
	AccountID any             `json:"account_id" binding:"required"`
	Tickets   []TicketRequest `json:"tickets" binding:"dive"`
}

type TicketRequest struct {
	Type     string `json:"type" binding:"required,ticket_type"`
	Quantity int    `json:"quantity"`
}

// ChargeListQuery holds pagination for account charges
type ChargeListQuery struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ConfigureBinding prepares gin's JSON binding for purchase bodies: numbers
// decoded into interface fields stay json.Number so large account ids are
// not rounded through float64, and the ticket_type rule is registered.
func ConfigureBinding() error {
	binding.EnableDecoderUseNumber = true

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("ticket_type", validateTicketType)
}

func validateTicketType(fl validator.FieldLevel) bool {
	_, ok := tickets.ParseTicketType(fl.Field().String())
	return ok
}
