package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ggufconv/internal/common/fsutil"
	"ggufconv/internal/convert"
	"ggufconv/internal/process"
	"ggufconv/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
// *convert.Converter satisfies it.
type Service interface {
	Convert(ctx context.Context, req convert.Request) error
	Plan(req convert.Request) ([]process.Command, error)
	Check() convert.SanityReport
	Toolchain() convert.Toolchain
}

type handlers struct {
	svc Service
	// mu serialises conversions: the pipeline never runs twice at once.
	mu sync.Mutex
}

func NewMux(svc Service) http.Handler {
	h := &handlers{svc: svc}
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		origins, methods, headers := corsDefaults()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: methods,
			AllowedHeaders: headers,
			MaxAge:         300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/convert", h.convert)
	r.Post("/plan", h.plan)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", h.readyz)

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)
	return r
}

// decodeRequest enforces JSON content type and the body limit, then maps the
// payload to a validated convert.Request.
func decodeRequest(w http.ResponseWriter, r *http.Request) (types.ConvertRequest, convert.Request, bool) {
	var body types.ConvertRequest
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return body, convert.Request{}, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		// MaxBytesReader overflow also lands here; keep 400 so the limit is not leaked
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return body, convert.Request{}, false
	}
	req := convert.Request{
		HFModel:         body.HFModel,
		GGUFOutput:      body.GGUFOutput,
		QuantizedOutput: body.QuantizedOutput,
		QuantType:       body.QuantType,
		QuantAlgo:       body.QuantAlgo,
	}
	if err := req.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return body, req, false
	}
	return body, req, true
}

func requestLogger(r *http.Request) zerolog.Logger {
	ctx := zlog.With().Str("path", r.URL.Path)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		ctx = ctx.Str("request_id", rid)
	}
	return ctx.Logger()
}

// convert godoc
// @Summary      Convert a Hugging Face model to GGUF, optionally quantizing it
// @Accept       json
// @Produce      json
// @Param        request  body      types.ConvertRequest  true  "conversion parameters"
// @Success      200      {object}  types.ConvertResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      502      {object}  types.ProcessErrorResponse
// @Router       /convert [post]
func (h *handlers) convert(w http.ResponseWriter, r *http.Request) {
	body, req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	log := requestLogger(r)
	log.Info().Str("model", req.HFModel).Bool("quantize", req.Quantize()).Msg("convert start")

	start := time.Now()
	err := h.run(req)
	dur := time.Since(start)

	if err != nil {
		var status int
		var pe *process.ProcessError
		switch {
		case errors.As(err, &pe):
			status = http.StatusBadGateway
			writeProcessError(w, pe)
		case convert.IsInvalidRequest(err):
			status = http.StatusBadRequest
			writeJSONError(w, status, err.Error())
		default:
			status = http.StatusInternalServerError
			writeJSONError(w, status, err.Error())
		}
		log.Info().Int("status", status).Dur("dur", dur).Err(err).Msg("convert end")
		return
	}

	dir := h.svc.Toolchain().Dir
	resp := types.ConvertResponse{Status: "ok", DurationMS: dur.Milliseconds()}
	resp.Outputs = append(resp.Outputs, summarize(log, dir, convert.StepConvert, req.GGUFOutput, body.Digest))
	if req.Quantize() {
		resp.Outputs = append(resp.Outputs, summarize(log, dir, convert.StepQuantize, req.QuantizedOutput, body.Digest))
	}
	writeJSON(w, http.StatusOK, resp)
	log.Info().Int("status", http.StatusOK).Dur("dur", dur).Msg("convert end")
}

// run holds the conversion lock for the duration of one pipeline run.
func (h *handlers) run(req convert.Request) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.svc.Convert(serverBaseCtx, req)
}

// summarize inspects an output file; inspection errors are logged, not returned,
// since the tools already reported success. Relative paths resolve against dir,
// the tools' working directory.
func summarize(log zerolog.Logger, dir, step, path string, withDigest bool) types.OutputFile {
	out := types.OutputFile{Step: step, Path: path}
	s, err := fsutil.Summarize(fsutil.Resolve(dir, path), withDigest)
	if err != nil {
		log.Warn().Str("step", step).Str("file", path).Err(err).Msg("cannot inspect output")
		return out
	}
	out.Size = s.Size
	out.Digest = s.Digest.String()
	return out
}

// plan godoc
// @Summary      Show the commands a conversion would run
// @Accept       json
// @Produce      json
// @Param        request  body      types.ConvertRequest  true  "conversion parameters"
// @Success      200      {object}  types.PlanResponse
// @Failure      400      {object}  types.ErrorResponse
// @Router       /plan [post]
func (h *handlers) plan(w http.ResponseWriter, r *http.Request) {
	_, req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	cmds, err := h.svc.Plan(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, types.PlanResponse{Commands: PlannedCommands(cmds)})
}

// PlannedCommands maps planned process commands to their API form. Steps are
// named by position: the first command converts, the second quantizes.
func PlannedCommands(cmds []process.Command) []types.PlannedCommand {
	steps := []string{convert.StepConvert, convert.StepQuantize}
	out := make([]types.PlannedCommand, 0, len(cmds))
	for i, c := range cmds {
		step := ""
		if i < len(steps) {
			step = steps[i]
		}
		out = append(out, types.PlannedCommand{Step: step, Argv: c.Argv(), Line: c.String()})
	}
	return out
}

// readyz godoc
// @Summary      Toolchain readiness
// @Produce      json
// @Success      200  {object}  types.ReadyResponse
// @Failure      503  {object}  types.ReadyResponse
// @Router       /readyz [get]
func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	rep := h.svc.Check()
	resp := types.ReadyResponse{Ready: rep.OK}
	for _, t := range rep.Tools {
		resp.Tools = append(resp.Tools, types.ToolStatus{Name: t.Name, Path: t.Path, Found: t.Found, Error: t.Error})
	}
	status := http.StatusOK
	if !rep.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
