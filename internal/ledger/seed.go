package ledger

import (
	"time"

	"billetera/internal/core"
)

// DefaultInitialBalance is the opening balance of the demo account (₡509.015,40).
var DefaultInitialBalance = core.Money{Cents: 50901540}

// DefaultProfile is the demo account holder.
var DefaultProfile = core.UserProfile{
	Name:         "Daniela Vargas",
	GovernmentID: "1-1234-0567",
	Phone:        "8712-3456",
	Color:        "#7C3AED",
	IDType:       "Cédula física",
}

var contactPalette = []string{
	"#F97316", "#10B981", "#3B82F6", "#EC4899", "#8B5CF6", "#EAB308", "#14B8A6", "#EF4444",
}

var envelopePalette = []string{
	"#22C55E", "#0EA5E9", "#F59E0B", "#A855F7", "#F43F5E",
}

// seed is the state logout returns to. It is materialized once per store so
// that a reset reproduces it exactly, timestamps included.
type seed struct {
	balance       core.Money
	user          core.UserProfile
	contacts      []core.Contact
	transfers     []core.TransferRecord
	recharges     []core.RechargeRecord
	notifications []core.NotificationItem
}

func (sd *seed) materialize(at time.Time) {
	ago := func(d time.Duration) time.Time { return at.Add(-d) }

	sd.contacts = []core.Contact{
		{ID: "seed-contact-1", Name: "Carlos Jiménez", Phone: "8890-1122", Color: "#F97316", Favorite: true, LastUsedAt: timePtr(ago(2 * time.Hour))},
		{ID: "seed-contact-2", Name: "María Fernández", Phone: "8345-6677", Color: "#10B981", Favorite: true, LastUsedAt: timePtr(ago(26 * time.Hour))},
		{ID: "seed-contact-3", Name: "Luis Mora", Phone: "7012-3344", Color: "#3B82F6"},
	}
	sd.transfers = []core.TransferRecord{
		{ID: "seed-transfer-1", ContactName: "Carlos Jiménez", Phone: "8890-1122", Amount: core.Money{Cents: 2500000}, Note: "Almuerzo", CreatedAt: ago(2 * time.Hour), Direction: core.Outbound},
		{ID: "seed-transfer-2", ContactName: "María Fernández", Phone: "8345-6677", Amount: core.Money{Cents: 1250000}, CreatedAt: ago(26 * time.Hour), Direction: core.Outbound},
	}
	sd.recharges = []core.RechargeRecord{
		{ID: "seed-recharge-1", Provider: "Kölbi", Phone: "8712-3456", Amount: core.Money{Cents: 300000}, CreatedAt: ago(72 * time.Hour)},
	}
	sd.notifications = []core.NotificationItem{
		{ID: "seed-notification-1", Title: "Bienvenida", Message: "Tu cuenta de demostración está lista.", Timestamp: ago(time.Hour), Category: core.CategoryGeneral},
		{ID: "seed-notification-2", Title: "Nuevo dispositivo", Message: "Se registró un inicio de sesión desde un dispositivo nuevo.", Timestamp: ago(48 * time.Hour), Read: true, Category: core.CategorySecurity},
	}
}
