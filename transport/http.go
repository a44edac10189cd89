package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	catalogapp "github.com/mkravchenko/warehouse-manager/application/catalog"
	inventoryapp "github.com/mkravchenko/warehouse-manager/application/inventory"
	ledgerapp "github.com/mkravchenko/warehouse-manager/application/ledger"
	sessionapp "github.com/mkravchenko/warehouse-manager/application/session"
	"github.com/mkravchenko/warehouse-manager/constant"
	"github.com/mkravchenko/warehouse-manager/model"
	contextutil "github.com/mkravchenko/warehouse-manager/utils/context"
	"github.com/mkravchenko/warehouse-manager/utils/errors"
	"github.com/mkravchenko/warehouse-manager/utils/logger"
	validatorx "github.com/mkravchenko/warehouse-manager/utils/validator"
	"go.uber.org/zap"
)

type RestHandler struct {
	SessionApp   sessionapp.SessionApp
	InventoryApp inventoryapp.InventoryApp
	CatalogApp   catalogapp.CatalogApp
	Committer    ledgerapp.Committer
}

func NewTransport(sessionApp sessionapp.SessionApp, inventoryApp inventoryapp.InventoryApp, catalogApp catalogapp.CatalogApp, committer ledgerapp.Committer) http.Handler {
	mux := mux.NewRouter()

	rh := &RestHandler{
		SessionApp:   sessionApp,
		InventoryApp: inventoryApp,
		CatalogApp:   catalogApp,
		Committer:    committer,
	}

	// Public routes
	mux.HandleFunc("/login", rh.Login).Methods(http.MethodPost)

	// Session
	mux.HandleFunc("/logout", rh.Logout).Methods(http.MethodPost)

	// Catalog
	mux.HandleFunc("/warehouses", rh.ListWarehouses).Methods(http.MethodGet)
	mux.HandleFunc("/warehouses", rh.CreateWarehouse).Methods(http.MethodPost)
	mux.HandleFunc("/warehouses/{id:[0-9]+}", rh.GetWarehouse).Methods(http.MethodGet)
	mux.HandleFunc("/warehouses/{id:[0-9]+}", rh.UpdateWarehouse).Methods(http.MethodPut)
	mux.HandleFunc("/warehouses/{id:[0-9]+}", rh.DeleteWarehouse).Methods(http.MethodDelete)
	mux.HandleFunc("/warehouses/{id:[0-9]+}/stock", rh.ListStock).Methods(http.MethodGet)
	mux.HandleFunc("/products", rh.ListProducts).Methods(http.MethodGet)
	mux.HandleFunc("/products", rh.CreateProduct).Methods(http.MethodPost)
	mux.HandleFunc("/products/{id:[0-9]+}", rh.GetProduct).Methods(http.MethodGet)
	mux.HandleFunc("/products/{id:[0-9]+}", rh.UpdateProduct).Methods(http.MethodPut)
	mux.HandleFunc("/products/{id:[0-9]+}", rh.DeleteProduct).Methods(http.MethodDelete)
	mux.HandleFunc("/clients", rh.ListClients).Methods(http.MethodGet)
	mux.HandleFunc("/clients", rh.CreateClient).Methods(http.MethodPost)
	mux.HandleFunc("/clients/{id:[0-9]+}", rh.GetClient).Methods(http.MethodGet)
	mux.HandleFunc("/clients/{id:[0-9]+}", rh.UpdateClient).Methods(http.MethodPut)
	mux.HandleFunc("/clients/{id:[0-9]+}", rh.DeleteClient).Methods(http.MethodDelete)
	mux.HandleFunc("/identifiers/{entity}/next", rh.NextIdentifier).Methods(http.MethodGet)
	mux.HandleFunc("/identifiers/{entity}/renumber", rh.RenumberIdentifiers).Methods(http.MethodPost)

	// Orders
	mux.HandleFunc("/orders", rh.ListOrders).Methods(http.MethodGet)
	mux.HandleFunc("/orders", rh.CreateOrder).Methods(http.MethodPost)
	mux.HandleFunc("/orders/{id:[0-9]+}/items", rh.ListOrderLines).Methods(http.MethodGet)
	mux.HandleFunc("/orders/{id:[0-9]+}/items", rh.AddToOrder).Methods(http.MethodPost)
	mux.HandleFunc("/orders/{id:[0-9]+}/items/{productID:[0-9]+}/{warehouseID:[0-9]+}", rh.RemoveFromOrder).Methods(http.MethodDelete)
	mux.HandleFunc("/orders/{id:[0-9]+}/finalize", rh.FinalizeOrder).Methods(http.MethodPost)

	// Stock movement
	mux.HandleFunc("/stock/transfer", rh.Transfer).Methods(http.MethodPost)
	mux.HandleFunc("/stock/write-off", rh.WriteOff).Methods(http.MethodPost)
	mux.HandleFunc("/stock/receive", rh.Receive).Methods(http.MethodPost)
	mux.HandleFunc("/stock/commit", rh.CommitChanges).Methods(http.MethodPost)

	// middleware
	mux.Use(LoggingMiddleware())
	mux.Use(AuthMiddleware(sessionApp))

	return mux
}

func (s *RestHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.SessionApp.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

func (s *RestHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}
	if err := s.SessionApp.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	items, err := s.CatalogApp.ListWarehouses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, items)
}

func (s *RestHandler) CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	var req model.WarehouseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	wh, err := s.CatalogApp.CreateWarehouse(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, wh)
}

func (s *RestHandler) GetWarehouse(w http.ResponseWriter, r *http.Request) {
	wh, err := s.CatalogApp.GetWarehouse(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, wh)
}

func (s *RestHandler) UpdateWarehouse(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var req model.WarehouseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := s.CatalogApp.UpdateWarehouse(r.Context(), id, &req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) DeleteWarehouse(w http.ResponseWriter, r *http.Request) {
	if err := s.CatalogApp.DeleteWarehouse(r.Context(), pathID(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	items, err := s.CatalogApp.ListStock(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, items)
}

func (s *RestHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	items, err := s.CatalogApp.ListProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, items)
}

func (s *RestHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := s.CatalogApp.CreateProduct(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, p)
}

func (s *RestHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.CatalogApp.GetProduct(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, p)
}

func (s *RestHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var req model.ProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := s.CatalogApp.UpdateProduct(r.Context(), id, &req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.CatalogApp.DeleteProduct(r.Context(), pathID(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	items, err := s.CatalogApp.ListClients(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, items)
}

func (s *RestHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req model.ClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	c, err := s.CatalogApp.CreateClient(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, c)
}

func (s *RestHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := s.CatalogApp.GetClient(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, c)
}

func (s *RestHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var req model.ClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := s.CatalogApp.UpdateClient(r.Context(), id, &req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.CatalogApp.DeleteClient(r.Context(), pathID(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) NextIdentifier(w http.ResponseWriter, r *http.Request) {
	entity := constant.Entity(mux.Vars(r)["entity"])
	id, err := s.CatalogApp.NextIdentifier(r.Context(), entity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]int64{"next_id": id})
}

func (s *RestHandler) RenumberIdentifiers(w http.ResponseWriter, r *http.Request) {
	entity := constant.Entity(mux.Vars(r)["entity"])
	if err := s.CatalogApp.RenumberIdentifiers(r.Context(), entity); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := constant.OrderStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = constant.OrderStatusInProgress
	}
	items, err := s.CatalogApp.ListOrders(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, items)
}

func (s *RestHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	orderID, err := s.InventoryApp.CreateOrder(r.Context(), req.ClientID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, map[string]int64{"order_id": orderID})
}

func (s *RestHandler) ListOrderLines(w http.ResponseWriter, r *http.Request) {
	items, err := s.CatalogApp.ListOrderLines(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, items)
}

func (s *RestHandler) AddToOrder(w http.ResponseWriter, r *http.Request) {
	req := model.AddToOrderRequest{OrderID: pathID(r, "id")}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := s.InventoryApp.AddToOrder(r.Context(), &req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) RemoveFromOrder(w http.ResponseWriter, r *http.Request) {
	req := model.RemoveFromOrderRequest{
		OrderID:     pathID(r, "id"),
		ProductID:   pathID(r, "productID"),
		WarehouseID: pathID(r, "warehouseID"),
	}
	if err := s.InventoryApp.RemoveFromOrder(r.Context(), &req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) FinalizeOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.InventoryApp.FinalizeOrder(r.Context(), pathID(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req model.TransferRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := s.InventoryApp.TransferBetweenWarehouses(r.Context(), &req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) WriteOff(w http.ResponseWriter, r *http.Request) {
	var req model.WriteOffRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := s.InventoryApp.WriteOff(r.Context(), &req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *RestHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var req model.ReceiveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := s.InventoryApp.Receive(r.Context(), &req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// CommitChanges replays a whole staged batch all-or-nothing. On failure the
// response carries the partial diagnostics so the session can correct and
// resubmit its still-intact ledger.
func (s *RestHandler) CommitChanges(w http.ResponseWriter, r *http.Request) {
	var req model.CommitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	result, err := s.Committer.Commit(r.Context(), req.Changes)
	if err != nil {
		writeFailedCommit(w, err, result)
		return
	}

	if username, ok := contextutil.GetUsername(r.Context()); ok {
		logger.Info("[CommitChanges] batch committed",
			zap.String("username", username),
			zap.Int("changes", len(result.Applied)))
	}
	writeSuccess(w, result)
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return false
	}
	if err := validatorx.ValidateStruct(req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return false
	}
	return true
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}
