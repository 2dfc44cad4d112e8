package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ferrowork/recordstate/internal/app"
	"github.com/ferrowork/recordstate/internal/domain"
)

// RecordResponse is the API representation of a record. Financial fields
// are omitted when the record never captured them.
type RecordResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	StoreID      string `json:"store_id" doc:"Owning store"`
	ResourceType string `json:"resource_type" doc:"Record category"`
	Status       string `json:"status" doc:"Lifecycle state"`

	AskingPrice        *float64 `json:"asking_price,omitempty" doc:"Initial asking price"`
	OfferPrice         *float64 `json:"offer_price,omitempty" doc:"Accepted offer price"`
	FinalPrice         *float64 `json:"final_price,omitempty" doc:"Effective final price"`
	CommissionRate     *float64 `json:"commission_rate,omitempty" doc:"Commission rate in percent"`
	AgentShareRate     *float64 `json:"agent_share_rate,omitempty" doc:"Agent share of the commission in percent"`
	CommissionAmount   *float64 `json:"commission_amount,omitempty" doc:"Total commission"`
	AgentShareAmount   *float64 `json:"agent_share_amount,omitempty" doc:"Agent's share of the commission"`
	CompanyShareAmount *float64 `json:"company_share_amount,omitempty" doc:"Company's share of the commission"`

	Stamps     map[string]string `json:"stamps" doc:"Lifecycle timestamps by field name (ISO 8601)"`
	Attributes map[string]any    `json:"attributes" doc:"Resource-specific fields"`

	CreatedAt string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toRecordResponse(r domain.Record) RecordResponse {
	stamps := make(map[string]string, len(r.Stamps))
	for field, ts := range r.Stamps {
		stamps[field] = ts.Format(time.RFC3339Nano)
	}
	return RecordResponse{
		ID:                 r.ID,
		StoreID:            r.StoreID,
		ResourceType:       string(r.Type),
		Status:             string(r.Status),
		AskingPrice:        r.AskingPrice,
		OfferPrice:         r.OfferPrice,
		FinalPrice:         r.FinalPrice,
		CommissionRate:     r.CommissionRate,
		AgentShareRate:     r.AgentShareRate,
		CommissionAmount:   r.CommissionAmount,
		AgentShareAmount:   r.AgentShareAmount,
		CompanyShareAmount: r.CompanyShareAmount,
		Stamps:             stamps,
		Attributes:         r.Attributes,
		CreatedAt:          r.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:          r.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// --- Create Record ---

type CreateRecordInput struct {
	StoreID      string `path:"storeID" doc:"Owning store ID"`
	ResourceType string `path:"resourceType" doc:"Record category" enum:"deal,admission,lab_order,complaint,subscription,reservation"`
	Body         struct {
		AskingPrice    *float64       `json:"asking_price,omitempty" doc:"Initial asking price"`
		OfferPrice     *float64       `json:"offer_price,omitempty" doc:"Accepted offer price"`
		CommissionRate *float64       `json:"commission_rate,omitempty" doc:"Commission rate in percent"`
		AgentShareRate *float64       `json:"agent_share_rate,omitempty" doc:"Agent share rate in percent"`
		Attributes     map[string]any `json:"attributes,omitempty" doc:"Resource-specific fields"`
	}
}

type CreateRecordOutput struct {
	Body RecordResponse
}

// --- Get Record ---

type GetRecordInput struct {
	StoreID      string `path:"storeID" doc:"Owning store ID"`
	ResourceType string `path:"resourceType" doc:"Record category"`
	ID           string `path:"id" doc:"Record ID"`
}

type GetRecordOutput struct {
	Body RecordResponse
}

// --- List Records ---

type ListRecordsInput struct {
	StoreID      string `path:"storeID" doc:"Owning store ID"`
	ResourceType string `path:"resourceType" doc:"Record category"`
	Status       string `query:"status" required:"false" doc:"Filter by status"`
	Limit        int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset       int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListRecordsOutput struct {
	Body []RecordResponse
}

// --- Update / Transition ---

type UpdateRecordInput struct {
	StoreID      string `path:"storeID" doc:"Owning store ID"`
	ResourceType string `path:"resourceType" doc:"Record category"`
	ID           string `path:"id" doc:"Record ID"`
	Body         struct {
		Status         *string        `json:"status,omitempty" doc:"Requested lifecycle state"`
		AskingPrice    *float64       `json:"asking_price,omitempty" doc:"Initial asking price"`
		OfferPrice     *float64       `json:"offer_price,omitempty" doc:"Accepted offer price"`
		FinalPrice     *float64       `json:"final_price,omitempty" doc:"Effective final price"`
		CommissionRate *float64       `json:"commission_rate,omitempty" doc:"Commission rate in percent"`
		AgentShareRate *float64       `json:"agent_share_rate,omitempty" doc:"Agent share rate in percent"`
		Attributes     map[string]any `json:"attributes,omitempty" doc:"Resource-specific fields"`
	}
}

type UpdateRecordOutput struct {
	Body RecordResponse
}

// Register adds all record API routes to the Huma API.
func Register(api huma.API, svc *app.RecordService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-record",
		Method:      http.MethodPost,
		Path:        "/api/v1/stores/{storeID}/{resourceType}",
		Summary:     "Create a record in its initial lifecycle state",
		Tags:        []string{"Records"},
	}, func(ctx context.Context, input *CreateRecordInput) (*CreateRecordOutput, error) {
		record, err := svc.Create(ctx, input.StoreID, domain.ResourceType(input.ResourceType), app.CreateRequest{
			AskingPrice:    input.Body.AskingPrice,
			OfferPrice:     input.Body.OfferPrice,
			CommissionRate: input.Body.CommissionRate,
			AgentShareRate: input.Body.AgentShareRate,
			Attributes:     input.Body.Attributes,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateRecordOutput{Body: toRecordResponse(record)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-record",
		Method:      http.MethodGet,
		Path:        "/api/v1/stores/{storeID}/{resourceType}/{id}",
		Summary:     "Get a record by ID",
		Tags:        []string{"Records"},
	}, func(ctx context.Context, input *GetRecordInput) (*GetRecordOutput, error) {
		record, err := svc.GetByID(ctx, input.StoreID, domain.ResourceType(input.ResourceType), input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetRecordOutput{Body: toRecordResponse(record)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-records",
		Method:      http.MethodGet,
		Path:        "/api/v1/stores/{storeID}/{resourceType}",
		Summary:     "List a store's records",
		Tags:        []string{"Records"},
	}, func(ctx context.Context, input *ListRecordsInput) (*ListRecordsOutput, error) {
		filter := domain.ListFilter{
			Limit:  input.Limit,
			Offset: input.Offset,
		}
		if input.Status != "" {
			s := domain.Status(input.Status)
			filter.Status = &s
		}

		records, err := svc.List(ctx, input.StoreID, domain.ResourceType(input.ResourceType), filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]RecordResponse, len(records))
		for i, r := range records {
			resp[i] = toRecordResponse(r)
		}
		return &ListRecordsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-record",
		Method:      http.MethodPatch,
		Path:        "/api/v1/stores/{storeID}/{resourceType}/{id}",
		Summary:     "Update a record, optionally transitioning its status",
		Tags:        []string{"Records"},
	}, func(ctx context.Context, input *UpdateRecordInput) (*UpdateRecordOutput, error) {
		req := domain.UpdateRequest{
			AskingPrice:    input.Body.AskingPrice,
			OfferPrice:     input.Body.OfferPrice,
			FinalPrice:     input.Body.FinalPrice,
			CommissionRate: input.Body.CommissionRate,
			AgentShareRate: input.Body.AgentShareRate,
			Attributes:     input.Body.Attributes,
		}
		if input.Body.Status != nil {
			s := domain.Status(*input.Body.Status)
			req.Status = &s
		}

		record, err := svc.ApplyUpdate(ctx, input.StoreID, domain.ResourceType(input.ResourceType), input.ID, req)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &UpdateRecordOutput{Body: toRecordResponse(record)}, nil
	})
}

// toHumaError translates domain errors to Huma HTTP errors. Storage errors
// are surfaced with their message intact, matching the platform's existing
// behavior.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return huma.Error404NotFound("record not found")
	}
	if errors.Is(err, domain.ErrNoChanges) {
		return huma.Error400BadRequest(domain.ErrNoChanges.Error())
	}

	var unknownType *domain.UnknownResourceTypeError
	if errors.As(err, &unknownType) {
		return huma.Error404NotFound(unknownType.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error400BadRequest(trErr.Error())
	}

	return huma.Error500InternalServerError(err.Error())
}
