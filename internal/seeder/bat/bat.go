// Package bat imports the fleet operations workbook: parties, medallions,
// vehicles, leases and the driver activity feeds, in dependency order.
package bat

import (
	"fmt"
	"strings"

	"github.com/bigappletaxi/fleetops-backend/internal/curb"
	"github.com/bigappletaxi/fleetops-backend/internal/ezpass"
	"github.com/bigappletaxi/fleetops-backend/internal/ledger"
	"github.com/bigappletaxi/fleetops-backend/internal/pvb"
	"github.com/bigappletaxi/fleetops-backend/internal/refdata"
	"github.com/bigappletaxi/fleetops-backend/internal/seeder"
	"github.com/bigappletaxi/fleetops-backend/pkg/logger"
)

// Dependencies carries the services the sheet parsers write through.
type Dependencies struct {
	Log         *logger.Logger
	Addresses   refdata.AddressService
	Banks       refdata.BankService
	Ledger      ledger.Service
	EZPass      ezpass.Service
	PVB         pvb.Service
	CURB        curb.Service
	ActorUserID int64
}

func (d *Dependencies) validate() error {
	if d.Log == nil {
		return fmt.Errorf("logger is required")
	}
	if d.Addresses == nil || d.Banks == nil {
		return fmt.Errorf("refdata services are required")
	}
	if d.Ledger == nil {
		return fmt.Errorf("ledger service is required")
	}
	if d.EZPass == nil || d.PVB == nil || d.CURB == nil {
		return fmt.Errorf("activity services are required")
	}
	return nil
}

// Parsers returns the sheet parsers in import order. Earlier sheets create the
// rows later sheets link to.
func Parsers(deps *Dependencies) ([]seeder.SheetParser, error) {
	if deps == nil {
		return nil, fmt.Errorf("dependencies are required")
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return []seeder.SheetParser{
		&addressParser{deps: deps},
		&bankAccountParser{deps: deps},
		&individualParser{deps: deps},
		&entityParser{deps: deps},
		&vehicleEntityParser{deps: deps},
		&corporationParser{deps: deps},
		&medallionOwnerParser{deps: deps},
		&dealerParser{deps: deps},
		&medallionParser{deps: deps},
		&driverParser{deps: deps},
		&vehicleParser{deps: deps},
		&vehicleHackupParser{deps: deps},
		&vehicleRegistrationParser{deps: deps},
		&vehicleInspectionParser{deps: deps},
		&leaseParser{deps: deps},
		&leaseDriverParser{deps: deps},
		&moLeaseParser{deps: deps},
		&curbTripParser{deps: deps},
		&ezpassParser{deps: deps},
		&pvbParser{deps: deps},
		&dailyReceiptParser{deps: deps},
	}, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// joinName assembles a display name from its parts, skipping blanks.
func joinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, " ")
}
