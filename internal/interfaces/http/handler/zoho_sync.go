package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/scheduler"
	"github.com/itsyosefali/zoho-integration/internal/interfaces/http/dto"
)

// Syncer pulls one page of records from Zoho Books
type Syncer interface {
	Sync(ctx context.Context, req integration.SyncRequest) (*integration.SyncRunResult, error)
}

// InvoicePusher pushes a stored sales invoice to Zoho Books
type InvoicePusher interface {
	PushByID(ctx context.Context, id uuid.UUID) (*integration.PushResult, error)
}

// SyncJobRunner runs and lists scheduled sync jobs
type SyncJobRunner interface {
	RunNow(ctx context.Context, entity integration.EntityKind, onlyNew bool) (*scheduler.SyncJob, error)
	GetJobHistory(limit int) []*scheduler.SyncJob
	GetJobHistoryByEntity(entity integration.EntityKind, limit int) []*scheduler.SyncJob
}

const defaultJobHistoryLimit = 20

// ZohoSyncHandler serves the pull sync, invoice push and sync job endpoints
type ZohoSyncHandler struct {
	BaseHandler
	customers Syncer
	items     Syncer
	invoices  InvoicePusher
	jobs      SyncJobRunner
}

// NewZohoSyncHandler creates a new ZohoSyncHandler. jobs may be nil when the
// scheduler is disabled.
func NewZohoSyncHandler(customers, items Syncer, invoices InvoicePusher, jobs SyncJobRunner) *ZohoSyncHandler {
	return &ZohoSyncHandler{
		customers: customers,
		items:     items,
		invoices:  invoices,
		jobs:      jobs,
	}
}

// SyncCustomers godoc
//
//	@ID				syncCustomersZohoSync
//	@Summary		Sync customers from Zoho Books
//	@Description	Reconcile one page of Zoho contacts into local customers
//	@Tags			zoho-sync
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SyncRequest	false	"Page options"
//	@Success		200		{object}	dto.Response{data=dto.SyncResponse}
//	@Failure		412		{object}	dto.Response
//	@Failure		502		{object}	dto.Response
//	@Router			/zoho/sync/customers [post]
func (h *ZohoSyncHandler) SyncCustomers(c *gin.Context) {
	h.sync(c, h.customers)
}

// SyncItems godoc
//
//	@ID				syncItemsZohoSync
//	@Summary		Sync items from Zoho Books
//	@Description	Reconcile one page of Zoho items into local items and their stock
//	@Tags			zoho-sync
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SyncRequest	false	"Page options"
//	@Success		200		{object}	dto.Response{data=dto.SyncResponse}
//	@Failure		412		{object}	dto.Response
//	@Failure		502		{object}	dto.Response
//	@Router			/zoho/sync/items [post]
func (h *ZohoSyncHandler) SyncItems(c *gin.Context) {
	h.sync(c, h.items)
}

func (h *ZohoSyncHandler) sync(c *gin.Context, syncer Syncer) {
	var req dto.SyncRequest
	// An empty body means the defaults.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	} else if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := syncer.Sync(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSyncResponse(result))
}

// PushInvoice godoc
//
//	@ID				pushInvoiceZohoSync
//	@Summary		Push a sales invoice
//	@Description	Create a submitted sales invoice in Zoho Books and record its payment
//	@Tags			zoho-sync
//	@Produce		json
//	@Param			id	path		string	true	"Sales invoice ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		422	{object}	dto.Response
//	@Router			/zoho/invoices/{id}/push [post]
func (h *ZohoSyncHandler) PushInvoice(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid sales invoice ID format")
		return
	}

	result, err := h.invoices.PushByID(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListJobs godoc
//
//	@ID				listJobsZohoSync
//	@Summary		List scheduled sync jobs
//	@Description	Most recent scheduled sync jobs, newest first
//	@Tags			zoho-sync
//	@Produce		json
//	@Param			entity	query		string	false	"customer or item"
//	@Param			limit	query		int		false	"Maximum jobs"	default(20)
//	@Success		200		{object}	dto.Response
//	@Router			/zoho/sync/jobs [get]
func (h *ZohoSyncHandler) ListJobs(c *gin.Context) {
	var query dto.SyncJobQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if h.jobs == nil {
		h.Success(c, []*scheduler.SyncJob{})
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultJobHistoryLimit
	}

	if query.Entity != "" {
		h.Success(c, h.jobs.GetJobHistoryByEntity(integration.EntityKind(query.Entity), query.Limit))
		return
	}
	h.Success(c, h.jobs.GetJobHistory(query.Limit))
}

// RunJob godoc
//
//	@ID				runJobZohoSync
//	@Summary		Run a sync job now
//	@Description	Walk every page of an entity through the scheduler, with its retries
//	@Tags			zoho-sync
//	@Accept			json
//	@Produce		json
//	@Param			entity	path		string					true	"customer or item"
//	@Param			request	body		dto.RunSyncJobRequest	false	"Job options"
//	@Success		200		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Router			/zoho/sync/jobs/{entity} [post]
func (h *ZohoSyncHandler) RunJob(c *gin.Context) {
	if h.jobs == nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidState, "sync scheduler is disabled")
		return
	}

	var req dto.RunSyncJobRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}
	onlyNew := true
	if req.OnlyNew != nil {
		onlyNew = *req.OnlyNew
	}

	job, err := h.jobs.RunNow(c.Request.Context(), integration.EntityKind(c.Param("entity")), onlyNew)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}
