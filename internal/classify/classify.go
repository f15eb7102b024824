// Package classify derives a customer's tenure status relative to a rep
// at order time. Status is one axis of the commission rate lookup.
package classify

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ridgepoint/commission-cli/internal/model"
	"github.com/ridgepoint/commission-cli/internal/store"
)

// FailOpenStatus is what a customer classifies as when the order-history
// lookup fails. Failing open to the new-customer rate means a transient
// store error inflates a commission rather than silently dropping one.
const FailOpenStatus = model.StatusNew

// daysPerMonth converts order-gap days to whole months via floor division.
const daysPerMonth = 30

// Classify determines the customer's status for an order: the most recent
// prior order strictly before orderDate decides.
//
//	no prior order            -> new
//	different salesperson     -> rep_transfer
//	gap >= 12 months          -> new (lapsed customer reverts)
//	gap <= 6 months           -> 6month
//	otherwise                 -> 12month
func Classify(ctx context.Context, st store.Store, customerID, salesPerson string, orderDate time.Time) model.CustomerStatus {
	prior, err := st.LatestOrderBefore(ctx, customerID, orderDate)
	if err != nil {
		zap.L().Warn("order history lookup failed, classifying as new",
			zap.String("component", "classify"),
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		return FailOpenStatus
	}
	if prior == nil {
		return model.StatusNew
	}

	if !sameRep(prior.SalesPersonCode, salesPerson) {
		return model.StatusRepTransfer
	}

	days := int(orderDate.Sub(*prior.PostingDate).Hours() / 24)
	months := days / daysPerMonth

	switch {
	case months >= 12:
		return model.StatusNew
	case months <= 6:
		return model.Status6Month
	default:
		return model.Status12Month
	}
}

func sameRep(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
