package httpapi

import (
	"net/http"

	"woopm.dev/internal/api"
	"woopm.dev/internal/audit"
)

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	orgID, err := intParam(r, "orgID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	data, err := a.backend.DashboardSummary(r.Context(), orgID)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	respond(w, http.StatusOK, data)
}

func (a *API) handleOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := a.backend.Organizations(r.Context())
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	respond(w, http.StatusOK, orgs)
}

func (a *API) handleOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := intParam(r, "orgID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	org, err := a.backend.Organization(r.Context(), orgID)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	respond(w, http.StatusOK, org)
}

func (a *API) handleForecasts(w http.ResponseWriter, r *http.Request) {
	orgID, err := intParam(r, "orgID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	list, err := a.backend.SalesForecasts(r.Context(), orgID)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (a *API) handleCreateForecast(w http.ResponseWriter, r *http.Request) {
	var req api.SalesForecastInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	f, err := a.backend.CreateSalesForecast(r.Context(), req)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	a.audit(r.Context(), audit.EventForecastCreate, map[string]any{
		"forecast_id":     f.ID,
		"organization_id": f.OrganizationID,
		"product_id":      f.ProductID,
	})
	respond(w, http.StatusOK, f)
}

func (a *API) handleUpdateForecast(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var patch api.SalesForecastPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	f, err := a.backend.UpdateSalesForecast(r.Context(), id, patch)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	a.audit(r.Context(), audit.EventForecastUpdate, map[string]any{
		"forecast_id":     f.ID,
		"organization_id": f.OrganizationID,
	})
	respond(w, http.StatusOK, f)
}

func (a *API) handleDeleteForecast(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.backend.DeleteSalesForecast(r.Context(), id); err != nil {
		handleBackendError(w, r, err)
		return
	}
	a.audit(r.Context(), audit.EventForecastDelete, map[string]any{"forecast_id": id})
	respond[any](w, http.StatusOK, nil)
}

func (a *API) handleSync(w http.ResponseWriter, r *http.Request) {
	orgID, err := intParam(r, "orgID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	res, err := a.backend.SyncWooCommerce(r.Context(), orgID)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	a.audit(r.Context(), audit.EventSync, map[string]any{"organization_id": orgID})
	respond(w, http.StatusOK, res)
}

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	orgID, err := intParam(r, "orgID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	products, err := a.backend.Products(r.Context(), orgID)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (a *API) handleOrders(w http.ResponseWriter, r *http.Request) {
	orgID, err := intParam(r, "orgID")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	orders, err := a.backend.Orders(r.Context(), orgID)
	if err != nil {
		handleBackendError(w, r, err)
		return
	}
	respond(w, http.StatusOK, orders)
}
