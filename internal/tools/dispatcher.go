package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/onecard-bot/onecard_bot/internal/account"
	"github.com/onecard-bot/onecard_bot/internal/card"
	"github.com/onecard-bot/onecard_bot/internal/emi"
)

// ErrUnknownTool is returned for names outside the catalog.
var ErrUnknownTool = errors.New("unknown tool")

// Dispatcher runs agent tool calls against the core services. Every call
// carries its customer explicitly in the arguments.
type Dispatcher struct {
	accounts *account.Service
	cards    *card.Service
	emis     *emi.Service
}

// NewDispatcher wires a dispatcher.
func NewDispatcher(accounts *account.Service, cards *card.Service, emis *emi.Service) *Dispatcher {
	return &Dispatcher{accounts: accounts, cards: cards, emis: emis}
}

type args struct {
	CustomerID   string          `json:"customer_id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Limit        *int            `json:"limit"`
	TxnID        string          `json:"txn_id"`
	TenureMonths int             `json:"tenure_months"`
}

// Invoke decodes raw arguments and runs the named tool. Domain failures are
// returned as an {"error": ...} result; only an unknown tool is an error.
func (d *Dispatcher) Invoke(ctx context.Context, name string, raw json.RawMessage) (fiber.Map, error) {
	var a args
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &a); err != nil {
			return failure(fmt.Errorf("invalid arguments: %w", err)), nil
		}
	}

	switch name {
	case OpenAccount:
		c, err := d.accounts.OpenAccount(ctx, account.OpenInput{Name: a.Name, Phone: a.Phone})
		if err != nil {
			return failure(err), nil
		}
		return account.OpenedResponse(c), nil
	case GetAccountStatus:
		st, err := d.accounts.GetStatus(ctx, a.CustomerID)
		if err != nil {
			return failure(err), nil
		}
		return account.StatusResponse(st), nil
	case CheckCardDelivery:
		tr, err := d.cards.Track(ctx, a.CustomerID)
		if err != nil {
			return failure(err), nil
		}
		return card.TrackingResponse(tr), nil
	case GetCurrentBill:
		bill, err := d.accounts.GetBill(ctx, a.CustomerID)
		if err != nil {
			return failure(err), nil
		}
		return account.BillResponse(bill), nil
	case MakePayment:
		res, err := d.accounts.ApplyPayment(ctx, account.PaymentInput{CustomerID: a.CustomerID, Amount: a.Amount, Method: a.Method})
		if err != nil {
			return failure(err), nil
		}
		return account.PaymentResponse(res), nil
	case GetRecentTransactions:
		limit := emi.DefaultListLimit
		if a.Limit != nil {
			limit = *a.Limit
		}
		txns, err := d.emis.ListTransactions(ctx, a.CustomerID, limit)
		if err != nil {
			return failure(err), nil
		}
		out := make([]emi.TransactionResponse, 0, len(txns))
		for _, t := range txns {
			out = append(out, emi.ToResponse(t))
		}
		return fiber.Map{"count": len(out), "transactions": out}, nil
	case ConvertToEmi:
		plan, err := d.emis.Convert(ctx, a.TxnID, a.TenureMonths)
		if err != nil {
			return failure(err), nil
		}
		return emi.ConversionResponse(plan), nil
	case CheckCollectionsStatus:
		risk, err := d.accounts.GetCollectionsRisk(ctx, a.CustomerID)
		if err != nil {
			return failure(err), nil
		}
		return account.RiskResponse(risk), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
}

func failure(err error) fiber.Map {
	return fiber.Map{"error": err.Error()}
}
