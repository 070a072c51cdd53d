package gateway

import (
	"time"

	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/shopspring/decimal"
)

// Wire shapes for the HTTP gateway. Field names follow the backend's JSON
// contract (camelCase keys, *Hrs field names).

type wireEnvelope struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Errors   []string       `json:"errors,omitempty"`
	Totals   *Totals        `json:"totals,omitempty"`
	AreaID   int64          `json:"areaId,omitempty"`
	Data     *wireFieldData `json:"data,omitempty"`
	Document *wireDocument  `json:"document,omitempty"`
}

type wireFieldData struct {
	PrepHrs    decimal.Decimal `json:"prepHrs"`
	WorkingHrs decimal.Decimal `json:"workingHrs"`
	TotalHrs   decimal.Decimal `json:"totalHrs"`
	Unit       string          `json:"unit"`
	Coats      int             `json:"coats"`
}

type wireDocument struct {
	WorkOrderID        int64      `json:"workOrderId"`
	ProposalNumber     string     `json:"proposalNumber"`
	ProposalState      string     `json:"proposalState"`
	CustomerName       string     `json:"customerName"`
	JobName            string     `json:"jobName"`
	JobAddress         string     `json:"jobAddress"`
	LastModified       *time.Time `json:"lastModified,omitempty"`
	LastModifiedBy     string     `json:"lastModifiedBy,omitempty"`
	OriginalProposalID *int64     `json:"originalProposalId,omitempty"`
	Areas              []wireArea `json:"areas"`
}

type wireArea struct {
	AreaID         int64          `json:"areaId"`
	AreaName       string         `json:"areaName"`
	CustomAreaName string         `json:"customAreaName,omitempty"`
	SortOrder      int            `json:"sortOrder"`
	LineItems      []wireLineItem `json:"lineItems"`
}

type wireLineItem struct {
	LineItemID  int64  `json:"lineItemId"`
	AreaID      int64  `json:"areaId"`
	ItemName    string `json:"itemName"`
	ItemType    string `json:"itemType,omitempty"`
	ProductName string `json:"productName,omitempty"`
	Sheen       string `json:"sheen,omitempty"`
	Color       string `json:"color,omitempty"`

	PrepHrs    decimal.Decimal `json:"prepHrs"`
	WorkingHrs decimal.Decimal `json:"workingHrs"`
	Unit       string          `json:"unit"`
	Coats      int             `json:"coats"`

	SortOrder   int        `json:"sortOrder"`
	IsDeleted   bool       `json:"isDeleted"`
	DeletedDate *time.Time `json:"deletedDate,omitempty"`
	IsModified  bool       `json:"isModified"`

	OriginalPrepHrs    decimal.Decimal `json:"originalPrepHrs"`
	OriginalWorkingHrs decimal.Decimal `json:"originalWorkingHrs"`
	OriginalUnit       string          `json:"originalUnit"`
	OriginalCoats      int             `json:"originalCoats"`
}

type reorderAreasRequest struct {
	WorkOrderID int64   `json:"workOrderId"`
	AreaIDs     []int64 `json:"areaIds"`
}

type reorderLineItemsRequest struct {
	WorkOrderID int64   `json:"workOrderId"`
	AreaID      int64   `json:"areaId"`
	LineItemIDs []int64 `json:"lineItemIds"`
}

type updateLineItemRequest struct {
	WorkOrderID int64  `json:"workOrderId"`
	LineItemID  int64  `json:"lineItemId"`
	Field       string `json:"field"`
	Value       string `json:"value"`
}

type deleteLineItemRequest struct {
	WorkOrderID int64 `json:"workOrderId"`
	LineItemID  int64 `json:"lineItemId"`
}

type updateAreaNameRequest struct {
	WorkOrderID    int64  `json:"workOrderId"`
	AreaID         int64  `json:"areaId"`
	CustomAreaName string `json:"customAreaName"`
}

type saveRequest struct {
	WorkOrderID int64          `json:"workOrderId"`
	Areas       []saveAreaData `json:"areas"`
}

type saveAreaData struct {
	AreaID         int64          `json:"areaId"`
	CustomAreaName string         `json:"customAreaName"`
	SortOrder      int            `json:"sortOrder"`
	LineItems      []saveItemData `json:"lineItems"`
}

type saveItemData struct {
	LineItemID int64           `json:"lineItemId"`
	PrepHrs    decimal.Decimal `json:"prepHrs"`
	WorkingHrs decimal.Decimal `json:"workingHrs"`
	Unit       string          `json:"unit"`
	Coats      int             `json:"coats"`
	SortOrder  int             `json:"sortOrder"`
	IsDeleted  bool            `json:"isDeleted"`
}

func snapshotToWire(snap domain.SaveSnapshot) saveRequest {
	req := saveRequest{WorkOrderID: snap.WorkOrderID}
	for _, a := range snap.Areas {
		ad := saveAreaData{
			AreaID:         a.AreaID,
			CustomAreaName: a.CustomAreaName,
			SortOrder:      a.SortOrder,
		}
		for _, li := range a.LineItems {
			ad.LineItems = append(ad.LineItems, saveItemData{
				LineItemID: li.LineItemID,
				PrepHrs:    li.PrepHours,
				WorkingHrs: li.WorkingHours,
				Unit:       li.Unit,
				Coats:      li.Coats,
				SortOrder:  li.SortOrder,
				IsDeleted:  li.IsDeleted,
			})
		}
		req.Areas = append(req.Areas, ad)
	}
	return req
}

func documentToDomain(d *wireDocument) *domain.WorkOrder {
	w := &domain.WorkOrder{
		ID:                 d.WorkOrderID,
		ProposalNumber:     d.ProposalNumber,
		ProposalState:      d.ProposalState,
		CustomerName:       d.CustomerName,
		JobName:            d.JobName,
		JobAddress:         d.JobAddress,
		LastModified:       d.LastModified,
		LastModifiedBy:     d.LastModifiedBy,
		OriginalProposalID: d.OriginalProposalID,
	}
	for _, wa := range d.Areas {
		a := &domain.Area{
			ID:          wa.AreaID,
			WorkOrderID: d.WorkOrderID,
			Name:        wa.AreaName,
			CustomName:  wa.CustomAreaName,
			SortOrder:   wa.SortOrder,
		}
		for _, wl := range wa.LineItems {
			a.LineItems = append(a.LineItems, &domain.LineItem{
				ID:                   wl.LineItemID,
				AreaID:               wa.AreaID,
				ItemName:             wl.ItemName,
				ItemType:             wl.ItemType,
				ProductName:          wl.ProductName,
				Sheen:                wl.Sheen,
				Color:                wl.Color,
				PrepHours:            wl.PrepHrs,
				WorkingHours:         wl.WorkingHrs,
				Unit:                 wl.Unit,
				Coats:                wl.Coats,
				SortOrder:            wl.SortOrder,
				IsDeleted:            wl.IsDeleted,
				DeletedAt:            wl.DeletedDate,
				IsModified:           wl.IsModified,
				OriginalPrepHours:    wl.OriginalPrepHrs,
				OriginalWorkingHours: wl.OriginalWorkingHrs,
				OriginalUnit:         wl.OriginalUnit,
				OriginalCoats:        wl.OriginalCoats,
			})
		}
		w.Areas = append(w.Areas, a)
	}
	return w
}
