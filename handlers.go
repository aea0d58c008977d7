package main

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"database/sql"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"hash"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"

	"bamtech/internal/config"
	"bamtech/internal/ratelimit"
	"bamtech/internal/relay"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

type App struct {
	Settings  *config.Settings
	Site      *config.SiteConfig
	DB        *sql.DB
	Templates *template.Template
	Page      *Page
	Metrics   *Metrics
	Limiter   ratelimit.Limiter
	Proxies   ratelimit.TrustedProxies
	Deliverer Deliverer
}

func NewApp(settings *config.Settings, site *config.SiteConfig, db *sql.DB, limiter ratelimit.Limiter, deliverer Deliverer, metrics *Metrics) *App {
	funcMap := template.FuncMap{
		// Translation function
		"t": func(translations Translations, key string) string {
			if val, ok := translations[key]; ok {
				return val
			}
			return key
		},
		"date": func(t time.Time) string {
			return t.Local().Format("2006-01-02 15:04")
		},
	}
	tpl := template.Must(
		template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.gohtml"),
	)
	return &App{
		Settings:  settings,
		Site:      site,
		DB:        db,
		Templates: tpl,
		Page:      NewPage(site),
		Metrics:   metrics,
		Limiter:   limiter,
		Deliverer: deliverer,
	}
}

// --- password verification ---

// verifyPassword checks password against the configured admin secret.
// Supported formats: bcrypt ($2a$, $2b$, $2y$), Werkzeug
// pbkdf2:sha256|sha512:iterations$salt$hash, and plain text for development.
func verifyPassword(stored, password string) bool {
	switch {
	case strings.HasPrefix(stored, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	case strings.HasPrefix(stored, "pbkdf2:"):
		return verifyWerkzeugHash(stored, password)
	default:
		return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
	}
}

// pbkdf2Hash is a parsed "pbkdf2:<digest>[:<iterations>]$<salt>$<hex>" value
// as written by Werkzeug's generate_password_hash.
type pbkdf2Hash struct {
	digest     func() hash.Hash
	iterations int
	salt       []byte
	key        []byte
}

// legacyPBKDF2Iterations applies to hashes that omit the iteration count.
const legacyPBKDF2Iterations = 260000

func parsePBKDF2Hash(stored string) (pbkdf2Hash, bool) {
	method, rest, ok := strings.Cut(stored, "$")
	if !ok {
		return pbkdf2Hash{}, false
	}
	salt, keyHex, ok := strings.Cut(rest, "$")
	if !ok || salt == "" || keyHex == "" {
		return pbkdf2Hash{}, false
	}

	var h pbkdf2Hash
	fields := strings.Split(method, ":")
	if len(fields) < 2 || len(fields) > 3 || fields[0] != "pbkdf2" {
		return pbkdf2Hash{}, false
	}
	switch fields[1] {
	case "sha256":
		h.digest = sha256.New
	case "sha512":
		h.digest = sha512.New
	default:
		return pbkdf2Hash{}, false
	}
	h.iterations = legacyPBKDF2Iterations
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 1 {
			return pbkdf2Hash{}, false
		}
		h.iterations = n
	}

	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) == 0 {
		return pbkdf2Hash{}, false
	}
	h.salt, h.key = []byte(salt), key
	return h, true
}

// verifyWerkzeugHash reports whether password derives the stored key.
// Malformed hashes never match.
func verifyWerkzeugHash(stored, password string) bool {
	h, ok := parsePBKDF2Hash(stored)
	if !ok {
		return false
	}
	derived := pbkdf2.Key([]byte(password), h.salt, h.iterations, len(h.key), h.digest)
	return subtle.ConstantTimeCompare(derived, h.key) == 1
}

// --- middleware ---

func (a *App) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.Settings.AdminPassword == "" {
			http.NotFound(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.Settings.AdminUsername)) == 1
		if !ok || !userOK || !verifyPassword(a.Settings.AdminPassword, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="bamtech admin", charset="UTF-8"`)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// --- rendering helpers ---

// baseData returns common template data including translations
func (a *App) baseData(lang Lang) map[string]any {
	return map[string]any{
		"Lang": lang,
		"T":    T(lang),
	}
}

// mergeData merges additional data into base data
func (a *App) mergeData(lang Lang, extra map[string]any) map[string]any {
	data := a.baseData(lang)
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// render executes the template into a buffer so a template error never
// leaves a half-written page behind.
func (a *App) render(w http.ResponseWriter, status int, name string, data map[string]any) {
	var buf bytes.Buffer
	if err := a.Templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[web] render %s: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// view localizes the landing page for r, pointing the toggle at the current
// path and remembering explicit choices when persistence is on.
func (a *App) view(w http.ResponseWriter, r *http.Request) PageView {
	lang, explicit := a.currentLang(r)
	if explicit {
		a.Metrics.LanguageSelections.WithLabelValues(string(lang)).Inc()
		if a.Settings.PersistLanguage {
			a.setLang(w, lang)
		}
	}
	v := a.Page.Localize(lang)
	v.ToggleURL = languageURL(r.URL.Path, r.URL.RawQuery, v.ToggleLang)
	return v
}

// --- handlers ---

func (a *App) handleHome(w http.ResponseWriter, r *http.Request) {
	v := a.view(w, r)
	a.Metrics.PageRenders.WithLabelValues("landing", string(v.Lang)).Inc()
	a.render(w, http.StatusOK, "landing", a.mergeData(v.Lang, map[string]any{"Page": v}))
}

func (a *App) handleThanks(w http.ResponseWriter, r *http.Request) {
	v := a.view(w, r)
	a.Metrics.PageRenders.WithLabelValues("thanks", string(v.Lang)).Inc()
	a.render(w, http.StatusOK, "thanks", a.mergeData(v.Lang, map[string]any{
		"Page":    v,
		"HomeURL": languageURL("/", "", v.Lang),
		"NavBase": languageURL("/", "", v.Lang),
	}))
}

func (a *App) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	lang, ok := ParseLang(r.PathValue("lang"))
	if !ok {
		lang = DefaultLang
	}
	if a.Settings.PersistLanguage {
		a.setLang(w, lang)
	}
	a.Metrics.LanguageSelections.WithLabelValues(string(lang)).Inc()

	// Redirect back to the referring page on this site, or home.
	target := "/"
	rawQuery := ""
	if ref, err := url.Parse(r.Header.Get("Referer")); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == r.Host) {
		target, rawQuery = ref.Path, ref.RawQuery
	}
	http.Redirect(w, r, languageURL(target, rawQuery, lang), http.StatusFound)
}

func (a *App) handleContent(w http.ResponseWriter, r *http.Request) {
	lang, _ := a.currentLang(r)
	v := a.Page.Localize(lang)
	a.Metrics.PageRenders.WithLabelValues("api", string(lang)).Inc()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Language", string(lang))
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode content: %v", err)
	}
}

func (a *App) handleContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	lang, _ := a.currentLang(r)
	v := a.Page.Localize(lang)
	thanks := languageURL("/thanks", "", v.Lang)

	sub := relay.FromForm(r.PostForm)
	if sub.IsSpam() {
		a.Metrics.Inquiries.WithLabelValues(outcomeSpam).Inc()
		http.Redirect(w, r, thanks, http.StatusSeeOther)
		return
	}

	// Rejected forms do not count against the limit.
	if err := sub.Validate(); err != nil {
		var fieldErrs relay.FieldErrors
		errors.As(err, &fieldErrs)
		a.Metrics.Inquiries.WithLabelValues(outcomeInvalid).Inc()
		a.renderContactError(w, http.StatusUnprocessableEntity, v, sub, fieldErrs, "")
		return
	}

	ip := a.Proxies.ClientIP(r)
	allowed, err := a.Limiter.Allow(ctx, ip)
	if err != nil {
		log.Printf("[contact] rate limiter: %v", err)
		allowed = true
	}
	if !allowed {
		a.Metrics.Inquiries.WithLabelValues(outcomeLimited).Inc()
		a.renderContactError(w, http.StatusTooManyRequests, v, sub, nil, "contact.error.rate")
		return
	}

	// Hidden fields are fixed per site; whatever the browser sent is ignored.
	sub.RelaySubject = a.Site.Relay.Subject
	sub.Next = localizedURL(a.Site.Relay.Next, v.Lang)
	sub.Honeypot = ""

	id, err := insertInquiry(ctx, a.DB, sub, v.Lang, ip, time.Now())
	if err != nil {
		log.Printf("[contact] %v", err)
		a.Metrics.Inquiries.WithLabelValues(outcomeFailed).Inc()
		a.renderContactError(w, http.StatusInternalServerError, v, sub, nil, "contact.error.generic")
		return
	}

	start := time.Now()
	err = a.Deliverer.Deliver(ctx, sub)
	a.Metrics.DeliveryDuration.WithLabelValues(a.Deliverer.Method()).Observe(time.Since(start).Seconds())
	switch {
	case err != nil:
		// The inquiry is archived; it can be followed up from /admin/inquiries.
		log.Printf("[contact] deliver %s via %s: %v", id, a.Deliverer.Method(), err)
		a.Metrics.Inquiries.WithLabelValues(outcomeStored).Inc()
	case a.Deliverer.Method() == config.DeliveryNone:
		a.Metrics.Inquiries.WithLabelValues(outcomeStored).Inc()
	default:
		if err := markDelivered(ctx, a.DB, id); err != nil {
			log.Printf("[contact] %v", err)
		}
		a.Metrics.Inquiries.WithLabelValues(outcomeDelivered).Inc()
	}

	http.Redirect(w, r, thanks, http.StatusSeeOther)
}

func (a *App) renderContactError(w http.ResponseWriter, status int, v PageView, sub relay.Submission, fieldErrs relay.FieldErrors, formErrKey string) {
	v = withSubmissionErrors(v, sub, fieldErrs, formErrKey)
	a.render(w, status, "landing", a.mergeData(v.Lang, map[string]any{"Page": v}))
}

func (a *App) handleAdminInquiries(w http.ResponseWriter, r *http.Request) {
	lang, _ := a.currentLang(r)
	limit := 100
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 1000 {
		limit = n
	}
	inquiries, err := listInquiries(r.Context(), a.DB, limit)
	if err != nil {
		log.Printf("[admin] %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	a.render(w, http.StatusOK, "admin_inquiries", a.mergeData(lang, map[string]any{
		"SiteName":  a.Site.SiteName,
		"Inquiries": inquiries,
	}))
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
