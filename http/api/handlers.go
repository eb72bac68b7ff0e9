package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/blackroad/roadplugin/http/binding"
	"github.com/blackroad/roadplugin/http/responder"
	"github.com/blackroad/roadplugin/plugin"
	"github.com/blackroad/roadplugin/runtime"
)

// pluginView is the wire shape of one catalog entry.
type pluginView struct {
	Name         string    `json:"name"`
	Version      string    `json:"version,omitempty"`
	Description  string    `json:"description,omitempty"`
	Author       string    `json:"author,omitempty"`
	State        string    `json:"state"`
	Dependencies []string  `json:"dependencies,omitempty"`
	Hooks        []string  `json:"hooks,omitempty"`
	HookCount    int       `json:"hook_count"`
	Path         string    `json:"path,omitempty"`
	LoadedAt     time.Time `json:"loaded_at"`
}

func (s *Server) view(rec *plugin.Record) pluginView {
	desc := rec.Descriptor()
	return pluginView{
		Name:         desc.Name,
		Version:      desc.Version,
		Description:  desc.Description,
		Author:       desc.Author,
		State:        rec.State().String(),
		Dependencies: desc.Dependencies,
		Hooks:        desc.Hooks,
		HookCount:    s.manager.OwnerHookCount(desc.Name),
		Path:         rec.Path,
		LoadedAt:     rec.LoadedAt,
	}
}

func (s *Server) listPlugins(w http.ResponseWriter, r *http.Request) {
	records := s.manager.List()
	views := make([]pluginView, 0, len(records))
	for _, rec := range records {
		views = append(views, s.view(rec))
	}
	responder.OK(w, r, views)
}

func (s *Server) discoverPlugins(w http.ResponseWriter, r *http.Request) {
	responder.OK(w, r, s.manager.Discover())
}

func (s *Server) getPlugin(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, ok := s.manager.Get(name)
	if !ok {
		responder.NotFound(w, r, "plugin "+name+" is not loaded")
		return
	}
	responder.OK(w, r, s.view(rec))
}

// loadRequest is the optional body of a load call.
type loadRequest struct {
	Path string `json:"path,omitempty"`
}

func (s *Server) loadPlugin(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var opts []runtime.LoadOption
	if r.ContentLength > 0 {
		var req loadRequest
		if err := binding.JSON(r, &req); err != nil {
			responder.BadRequest(w, r, err.Error(), nil)
			return
		}
		if req.Path != "" {
			opts = append(opts, runtime.WithPath(req.Path))
		}
	}

	rec, err := s.manager.Load(r.Context(), name, opts...)
	if err != nil {
		responder.Fail(w, r, err)
		return
	}
	responder.Created(w, r, s.view(rec))
}

func (s *Server) enablePlugin(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.manager.Enable)
}

func (s *Server) disablePlugin(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.manager.Disable)
}

// transition runs one enable/disable style operation and reports the
// resulting state.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, name string) error) {
	name := chi.URLParam(r, "name")
	if err := op(r.Context(), name); err != nil {
		responder.Fail(w, r, err)
		return
	}

	rec, ok := s.manager.Get(name)
	if !ok {
		responder.NotFound(w, r, "plugin "+name+" is not loaded")
		return
	}
	responder.OK(w, r, s.view(rec))
}

func (s *Server) unloadPlugin(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.manager.Unload(r.Context(), name); err != nil {
		responder.Fail(w, r, err)
		return
	}
	responder.OK(w, r, map[string]string{"name": name, "state": "unloaded"})
}

func (s *Server) reloadPlugin(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, err := s.manager.Reload(r.Context(), name)
	if err != nil {
		responder.Fail(w, r, err)
		return
	}
	responder.OK(w, r, s.view(rec))
}

func (s *Server) loadAll(w http.ResponseWriter, r *http.Request) {
	count := s.manager.LoadAll(r.Context())
	responder.OK(w, r, map[string]int{"loaded": count})
}

func (s *Server) listHooks(w http.ResponseWriter, r *http.Request) {
	responder.OK(w, r, s.manager.Hooks())
}

// executeRequest is the body of a hook execution call. Filter mode threads
// Value through the chain instead of fanning Args out.
type executeRequest struct {
	Args   []any `json:"args,omitempty"`
	Filter bool  `json:"filter,omitempty"`
	Value  any   `json:"value,omitempty"`
}

func (s *Server) executeHook(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req executeRequest
	if r.ContentLength > 0 {
		if err := binding.JSON(r, &req); err != nil {
			responder.BadRequest(w, r, err.Error(), nil)
			return
		}
	}

	if req.Filter {
		out := s.manager.ExecuteFilter(r.Context(), name, req.Value, req.Args...)
		responder.OK(w, r, map[string]any{"hook": name, "value": out})
		return
	}

	results := s.manager.Execute(r.Context(), name, req.Args...)
	responder.OK(w, r, map[string]any{"hook": name, "results": results})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	responder.OK(w, r, s.manager.Status())
}
