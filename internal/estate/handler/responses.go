package handler

import (
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/audit"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	id "github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/domain"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/money"
)

// EstateResponse is the HTTP shape of an estate. The aggregate serializes
// itself; the response adds the derived distributable pool, which lives on a
// method rather than a field.
type EstateResponse struct {
	*models.Estate
	DistributablePool money.Money `json:"distributable_pool"`
}

// FromEstate converts an aggregate into its response form.
func FromEstate(e *models.Estate) *EstateResponse {
	return &EstateResponse{
		Estate:            e,
		DistributablePool: e.DistributablePool(),
	}
}

// TrailResponse is the HTTP shape of an estate's audit trail.
type TrailResponse struct {
	EstateID id.EstateID    `json:"estate_id"`
	Records  []audit.Record `json:"records"`
}

// FromRecords converts trail records into their response form. The records
// slice is never nil so clients always see an array.
func FromRecords(estateID id.EstateID, records []audit.Record) *TrailResponse {
	if records == nil {
		records = []audit.Record{}
	}
	return &TrailResponse{EstateID: estateID, Records: records}
}
