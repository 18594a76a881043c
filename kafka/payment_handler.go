package kafka

import (
	"context"
	"log"
	"time"

	"shop-backend/orders"
)

// CheckoutCompletedHandler feeds provider checkout-completed events into
// payment reconciliation. Broker delivery may repeat a message; the
// reconciler is safe to run twice, so the handler just logs and moves on.
func CheckoutCompletedHandler(rec *orders.Reconciler) func([]byte) {
	return func(msg []byte) {
		log.Printf("📥 payment.checkout.completed received: %s", string(msg))

		evt, err := orders.ParseCheckoutCompleted(msg)
		if err != nil {
			log.Printf("invalid checkout.completed payload: %v", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rec.Reconcile(ctx, evt); err != nil {
			log.Printf("failed to reconcile order %d: %v", evt.Data.Session.OrderID, err)
			return
		}
	}
}
