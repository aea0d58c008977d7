package main

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Lang is the UI language. Turkish is the primary language, English the
// secondary one.
type Lang string

const (
	LangTR Lang = "tr"
	LangEN Lang = "en"
)

// DefaultLang is the language shown before the visitor toggles.
const DefaultLang = LangTR

const (
	langParam      = "lang"
	langCookieName = "lang"
)

var (
	supportedLangs = []Lang{LangTR, LangEN}
	langMatcher    = language.NewMatcher([]language.Tag{language.Turkish, language.English})
)

// Toggle returns the other language.
func (l Lang) Toggle() Lang {
	if l == LangEN {
		return LangTR
	}
	return LangEN
}

// Code is the upper-case label used on the toggle button.
func (l Lang) Code() string {
	return strings.ToUpper(string(l))
}

// ParseLang maps a BCP 47 tag such as "en-US" or "tr" to a supported
// language. Unknown or malformed tags report false.
func ParseLang(value string) (Lang, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultLang, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultLang, false
	}
	_, idx, conf := langMatcher.Match(tag)
	if conf == language.No {
		return DefaultLang, false
	}
	return supportedLangs[idx], true
}

// NegotiateLang picks a language from an Accept-Language header.
func NegotiateLang(accept string) Lang {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	return supportedLangs[idx]
}

// currentLang resolves the request language: query parameter, then the
// cookie when persistence is on, then Accept-Language when negotiation is on.
// The bool reports whether the language was chosen explicitly in the URL.
func (a *App) currentLang(r *http.Request) (Lang, bool) {
	if lang, ok := ParseLang(r.URL.Query().Get(langParam)); ok {
		return lang, true
	}
	if a.Settings.PersistLanguage {
		if c, err := r.Cookie(langCookieName); err == nil {
			if lang, ok := ParseLang(c.Value); ok {
				return lang, false
			}
		}
	}
	if a.Settings.NegotiateLanguage {
		if accept := r.Header.Get("Accept-Language"); accept != "" {
			return NegotiateLang(accept), false
		}
	}
	return DefaultLang, false
}

func (a *App) setLang(w http.ResponseWriter, lang Lang) {
	http.SetCookie(w, &http.Cookie{
		Name:     langCookieName,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// languageURL returns path with the lang query parameter set to lang and
// every other parameter kept.
func languageURL(path, rawQuery string, lang Lang) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(langParam, string(lang))
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

// localizedURL sets the lang parameter on an absolute or relative URL,
// such as the relay's redirect target. Unparseable values are returned as is.
func localizedURL(raw string, lang Lang) string {
	u, err := url.Parse(raw)
	if err != nil || raw == "" {
		return raw
	}
	query := u.Query()
	query.Set(langParam, string(lang))
	u.RawQuery = query.Encode()
	return u.String()
}

// Text is one piece of displayed content in both languages.
type Text struct {
	TR string
	EN string
}

// In selects the member for lang.
func (t Text) In(lang Lang) string {
	if lang == LangEN {
		return t.EN
	}
	return t.TR
}

// Translations holds all text for one language
type Translations map[string]string

// T returns translations for the given language
func T(lang Lang) Translations {
	if lang == LangEN {
		return translationsEN
	}
	return translationsTR
}

var translationsTR, translationsEN = split(texts)

func split(table map[string]Text) (Translations, Translations) {
	tr := make(Translations, len(table))
	en := make(Translations, len(table))
	for key, t := range table {
		tr[key] = t.TR
		en[key] = t.EN
	}
	return tr, en
}

// validateTexts checks that every entry has both languages and that every key
// referenced by the page layout exists.
func validateTexts(table map[string]Text, referenced []string) error {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var missing []string
	for _, k := range keys {
		t := table[k]
		if strings.TrimSpace(t.TR) == "" {
			missing = append(missing, k+"[tr]")
		}
		if strings.TrimSpace(t.EN) == "" {
			missing = append(missing, k+"[en]")
		}
	}
	for _, k := range referenced {
		if _, ok := table[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing translations: %s", strings.Join(missing, ", "))
	}
	return nil
}

var texts = map[string]Text{
	// Brand
	"brand.tagline":    {"BAM Teknoloji ve Araştırma Merkezi", "Technology & Research Center"},
	"meta.description": {"Araştırma tasarımı, dijital ölçüm ve biyomekanik test hizmetleri.", "Research design, digital metrology and biomechanical testing services."},
	"lang.toggle":      {"Dili değiştir", "Language toggle"},

	// Navigation
	"nav.services": {"Hizmetler", "Services"},
	"nav.projects": {"Projeler", "Projects"},
	"nav.labs":     {"Laboratuvarlar", "Labs"},
	"nav.about":    {"Hakkımızda", "About"},
	"nav.contact":  {"İletişim", "Contact"},

	// Hero
	"hero.title":        {"Bilimle Üreten Teknoloji", "Engineering Technology with Science"},
	"hero.subtitle":     {"Araştırma tasarımı, dijital ölçüm ve biyomekanik test altyapısını tek çatı altında birleştiriyoruz.", "We combine research design, digital measurement and biomechanical testing under one roof."},
	"hero.cta.contact":  {"Teklif/İletişim", "Get in Touch"},
	"hero.cta.services": {"Hizmetler", "Our Services"},
	"hero.slogan":       {"Research · Design · Verify", "Research · Design · Verify"},

	// Feature tiles
	"tile.research":     {"Araştırma Tasarımı", "Research Design"},
	"tile.analysis":     {"Veri Analizi", "Data Analysis"},
	"tile.prototyping":  {"Prototipleme", "Prototyping"},
	"tile.testing":      {"Test & Doğrulama", "Testing & Validation"},
	"tile.metrology":    {"Dijital Ölçüm", "Digital Metrology"},
	"tile.biomechanics": {"Biyomekanik", "Biomechanics"},

	// Services
	"services.title": {"Hizmetler", "Services"},
	"services.intro": {"Akademik ve endüstriyel projeler için uçtan uca destek: metodoloji, veri toplama, cihaz geliştirme, analiz ve yayın süreci.", "End-to-end support for academic and industrial projects: methodology, data acquisition, device development, analysis, and publications."},

	"service.research.title":    {"Araştırma Tasarımı", "Research Design"},
	"service.research.desc":     {"Hipotez, örneklem ve istatistiksel plan.", "Hypothesis, sampling and statistical planning."},
	"service.data.title":        {"Veri Toplama ve Analiz", "Data Collection & Analysis"},
	"service.data.desc":         {"Dijital ölçüm sistemleri, veri temizleme ve modelleme.", "Digital metrology systems, data cleaning and modeling."},
	"service.prototyping.title": {"Prototipleme & Üretim", "Prototyping & Fabrication"},
	"service.prototyping.desc":  {"Mekatronik prototipler, test fikstürleri ve jigler.", "Mechatronic prototypes, test fixtures and jigs."},
	"service.biomech.title":     {"Biyomekanik Test", "Biomechanical Testing"},
	"service.biomech.desc":      {"Çiğneme simülatörleri ve kuvvet/yorulma testleri.", "Chewing simulators and force/fatigue testing."},
	"service.writing.title":     {"Akademik Yazım & Yayın", "Scientific Writing"},
	"service.writing.desc":      {"Makale, rapor ve etik süreç danışmanlığı.", "Manuscripts, reports and ethics guidance."},
	"service.metrology.title":   {"Dijital Ölçüm & Algoritmalar", "Digital Metrology & Algorithms"},
	"service.metrology.desc":    {"Sinyal işleme ve doğrulama protokolleri.", "Signal processing and validation protocols."},

	// Projects
	"projects.title":   {"Öne Çıkan Proje", "Featured Project"},
	"projects.desc":    {"Yeni Nesil Çiğneme Simülatörü: 50–250N yük, 25mm strok, 1.5Hz frekans ile 5.000.000 çevrim test kapasitesi.", "Next-gen Chewing Simulator: 50–250N per-stamp, 25mm stroke, 1.5Hz frequency, 5,000,000 cycle test capacity."},
	"projects.bullet1": {"Çok eksenli hareket ve hassas yük kontrolü", "Multi-axis motion with precise load control"},
	"projects.bullet2": {"Modüler fikstür ve güvenilirlik protokolleri", "Modular fixturing and reliability protocols"},
	"projects.bullet3": {"Akademik yayın ve raporlama desteği", "Academic publishing & reporting support"},

	// Labs
	"labs.title":       {"Laboratuvar Altyapısı", "Laboratory Infrastructure"},
	"labs.note":        {"Cihaz listesi ve rezervasyon yakında.", "Equipment list & booking coming soon."},
	"lab.biomechanics": {"Biyomekanik Laboratuvarı", "Biomechanics Lab"},
	"lab.metrology":    {"Dijital Ölçüm", "Digital Metrology"},
	"lab.prototyping":  {"Prototipleme Stüdyosu", "Prototyping Studio"},

	// About
	"about.title": {"Hakkımızda", "About Us"},
	"about.body":  {"BAMTech Center, akademik araştırma destek hizmetleri ile dijital üretim ve ölçüm teknolojilerini bir araya getiren hibrit bir araştırma ve uygulama merkezidir.", "BAMTech Center is a hybrid research and application hub uniting academic support with digital fabrication and measurement technologies."},

	// Contact
	"contact.title":     {"İletişim", "Contact"},
	"contact.lead":      {"Bize projenizi anlatın, birlikte planlayalım.", "Tell us about your project, let's plan together."},
	"contact.location":  {"Türkiye", "Türkiye"},
	"contact.instagram": {"Instagram'da bizi takip edin", "Follow us on Instagram"},

	"form.name":    {"Ad Soyad", "Full Name"},
	"form.email":   {"E-posta", "Email"},
	"form.subject": {"Konu", "Subject"},
	"form.message": {"Mesajınız", "Your Message"},
	"form.send":    {"Gönder", "Send"},

	"contact.error.required": {"Bu alan zorunludur.", "This field is required."},
	"contact.error.email":    {"Geçerli bir e-posta adresi girin.", "Enter a valid email address."},
	"contact.error.rate":     {"Çok fazla mesaj gönderildi. Lütfen daha sonra tekrar deneyin.", "Too many messages sent. Please try again later."},
	"contact.error.generic":  {"Mesajınız kaydedilemedi. Lütfen tekrar deneyin.", "Your message could not be saved. Please try again."},

	// Thanks
	"thanks.title": {"Teşekkürler!", "Thank you!"},
	"thanks.body":  {"Mesajınız bize ulaştı. En kısa sürede dönüş yapacağız.", "Your message reached us. We will get back to you shortly."},
	"thanks.back":  {"Ana sayfaya dön", "Back to home"},

	// Admin
	"admin.title":    {"Gelen Mesajlar", "Inquiries"},
	"admin.empty":    {"Henüz mesaj yok.", "No inquiries yet."},
	"admin.date":     {"Tarih", "Date"},
	"admin.sender":   {"Gönderen", "Sender"},
	"admin.subject":  {"Konu", "Subject"},
	"admin.message":  {"Mesaj", "Message"},
	"admin.language": {"Dil", "Language"},
	"admin.status":   {"Durum", "Status"},
	"admin.sent":     {"İletildi", "Delivered"},
	"admin.stored":   {"Kaydedildi", "Stored"},
}
