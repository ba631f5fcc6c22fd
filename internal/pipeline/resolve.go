package pipeline

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/iris2odim/internal/iris"
	"github.com/couchcryptid/iris2odim/pkg/domain"
)

// ResolveKind decides which domain object raw populates. It neither mutates
// nor releases raw.
func ResolveKind(raw *iris.RawFile) domain.ObjectKind {
	kind, _ := resolve(raw)
	return kind
}

// resolve is ResolveKind with the reason a file is Undefined.
func resolve(raw *iris.RawFile) (domain.ObjectKind, error) {
	if raw.Product.Type != iris.ProductRaw {
		return domain.KindUndefined, fmt.Errorf("product type %s is not RAW", raw.Product.Type)
	}
	if !raw.Ingest.ScanMode.IsPPI() {
		return domain.KindUndefined, fmt.Errorf("scan mode %s is not PPI", raw.Ingest.ScanMode)
	}
	switch n := len(raw.Sweeps); {
	case n == 0:
		return domain.KindUndefined, errors.New("no sweeps")
	case n == 1:
		return domain.KindScan, nil
	default:
		return domain.KindVolume, nil
	}
}
