package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	interf "github.com/glkeru/loyalty/ledgersync/internal/interfaces"
	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	services "github.com/glkeru/loyalty/ledgersync/internal/services"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type LedgerHandler struct {
	router  *mux.Router
	engines *Engines
	catalog interf.CatalogStorage
	logger  *zap.Logger
}

func NewHandler(engines *Engines, catalog interf.CatalogStorage, logger *zap.Logger) *LedgerHandler {
	router := mux.NewRouter()
	handler := &LedgerHandler{router, engines, catalog, logger}
	router.Use(MiddlewareLog())
	router.HandleFunc("/users/{user}/snapshot", handler.SnapshotHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{user}/commands/{command}", handler.CommandHandler).Methods(http.MethodPost)
	router.HandleFunc("/users/{user}/stream", handler.StreamHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{user}", handler.DropHandler).Methods(http.MethodDelete)
	router.HandleFunc("/categories", handler.GetCategoriesHandler).Methods(http.MethodGet)
	router.HandleFunc("/category", handler.SaveCategoryHandler).Methods(http.MethodPost)
	router.HandleFunc("/options", handler.GetOptionsHandler).Methods(http.MethodGet)
	router.HandleFunc("/option", handler.SaveOptionHandler).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return handler
}

func (r *LedgerHandler) ServeHTTP(w http.ResponseWriter, res *http.Request) {
	r.router.ServeHTTP(w, res)
}

func (r *LedgerHandler) Log(msg string, service string, err error) {
	r.logger.Error(msg,
		zap.String("service", service),
		zap.Error(err),
	)
}

func (r *LedgerHandler) writeJSON(w http.ResponseWriter, v any, service string) {
	j, err := json.Marshal(v)
	if err != nil {
		r.Log("Marshal", service, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(j)
}

// Текущий снапшот пользователя
func (r *LedgerHandler) SnapshotHandler(w http.ResponseWriter, req *http.Request) {
	engine, err := r.engines.Get(mux.Vars(req)["user"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	r.writeJSON(w, NewSnapshotResponse(engine.Snapshot()), "SnapshotHandler")
}

// Команда движку; ответ - снапшот после ее обработки.
// Ошибка команды возвращается внутри снапшота.
func (r *LedgerHandler) CommandHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	decode, ok := commandDecoders[vars["command"]]
	if !ok {
		http.Error(w, "Unknown command", http.StatusNotFound)
		return
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.Log("Get request body", "CommandHandler", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer req.Body.Close()
	cmd, err := decode(body)
	if err != nil {
		r.Log("Unmarshal", "CommandHandler", err)
		http.Error(w, "Body is not correct", http.StatusBadRequest)
		return
	}

	engine, err := r.engines.Get(vars["user"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	snap, err := engine.Dispatch(req.Context(), cmd)
	if err != nil {
		r.Log("Dispatch", "CommandHandler", err)
		if errors.Is(err, services.ErrClosed) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}
	r.writeJSON(w, NewSnapshotResponse(snap), "CommandHandler")
}

// Остановить движок пользователя
func (r *LedgerHandler) DropHandler(w http.ResponseWriter, req *http.Request) {
	r.engines.Drop(mux.Vars(req)["user"])
	w.WriteHeader(http.StatusNoContent)
}

// Получить категории
func (r *LedgerHandler) GetCategoriesHandler(w http.ResponseWriter, req *http.Request) {
	categories, err := r.catalog.ListCategories(req.Context())
	if err != nil {
		r.Log("DB get", "GetCategoriesHandler", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	r.writeJSON(w, categories, "GetCategoriesHandler")
}

// Создать/обновить категорию
func (r *LedgerHandler) SaveCategoryHandler(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.Log("Get request body", "SaveCategoryHandler", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer req.Body.Close()
	category := &model.Category{}
	err = json.Unmarshal(body, category)
	if err != nil || category.ID == "" {
		r.Log("Unmarshal", "SaveCategoryHandler", err)
		http.Error(w, "Body is not correct", http.StatusBadRequest)
		return
	}
	err = r.catalog.SaveCategory(req.Context(), *category)
	if err != nil {
		r.Log("SaveCategory", "SaveCategoryHandler", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Получить варианты списания
func (r *LedgerHandler) GetOptionsHandler(w http.ResponseWriter, req *http.Request) {
	options, err := r.catalog.ListOptions(req.Context())
	if err != nil {
		r.Log("DB get", "GetOptionsHandler", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	r.writeJSON(w, options, "GetOptionsHandler")
}

// Создать/обновить вариант списания
func (r *LedgerHandler) SaveOptionHandler(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.Log("Get request body", "SaveOptionHandler", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer req.Body.Close()
	option := &model.RedemptionOption{}
	err = json.Unmarshal(body, option)
	if err != nil || option.ID == "" || option.Cost < 0 {
		r.Log("Unmarshal", "SaveOptionHandler", err)
		http.Error(w, "Body is not correct", http.StatusBadRequest)
		return
	}
	err = r.catalog.SaveOption(req.Context(), *option)
	if err != nil {
		r.Log("SaveOption", "SaveOptionHandler", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// Команды по имени в пути
var commandDecoders = map[string]func([]byte) (model.Command, error){
	"load":            decode[model.Load],
	"load-page":       decode[model.LoadPage],
	"load-more":       decode[model.LoadMore],
	"add":             decode[model.AddEntry],
	"update":          decode[model.UpdateEntry],
	"delete":          decode[model.DeleteEntry],
	"search":          decode[model.Search],
	"clear-search":    decode[model.ClearSearch],
	"filter":          decode[model.SetFilter],
	"select":          decode[model.Select],
	"deselect":        decode[model.Deselect],
	"clear-selection": decode[model.ClearSelection],
	"batch":           decode[model.Batch],
	"sync":            decode[model.Sync],
	"retry":           decode[model.Retry],
	"reset":           decode[model.Reset],
	"watch":           decode[model.StartWatch],
	"unwatch":         decode[model.StopWatch],
	"options":         decode[model.LoadOptions],
	"redeem":          decode[model.Redeem],
}

// Пустое тело - команда без параметров
func decode[T model.Command](body []byte) (model.Command, error) {
	var cmd T
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &cmd); err != nil {
			return nil, err
		}
	}
	return cmd, nil
}
