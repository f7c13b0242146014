package purchase_receipt

import (
	"milkledger/internal/domain/documents"
)

// Repository stores purchase receipts with their items.
type Repository = documents.Repository[*PurchaseReceipt]
