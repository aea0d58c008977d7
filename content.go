package main

import (
	"time"

	"bamtech/internal/config"
	"bamtech/internal/relay"
)

// NavEntry is a link to one section of the page. Order is display order.
type NavEntry struct {
	ID    string
	Label string
}

// ServiceCard is one item of the services grid.
type ServiceCard struct {
	Title string
	Desc  string
	Icon  string
}

// Tile is one of the hero feature tiles.
type Tile struct {
	Label string
	Icon  string
}

var navigation = []NavEntry{
	{ID: "services", Label: "nav.services"},
	{ID: "projects", Label: "nav.projects"},
	{ID: "labs", Label: "nav.labs"},
	{ID: "about", Label: "nav.about"},
	{ID: "contact", Label: "nav.contact"},
}

var featureTiles = []Tile{
	{Label: "tile.research", Icon: "beaker"},
	{Label: "tile.analysis", Icon: "line-chart"},
	{Label: "tile.prototyping", Icon: "wrench"},
	{Label: "tile.testing", Icon: "microscope"},
	{Label: "tile.metrology", Icon: "cpu"},
	{Label: "tile.biomechanics", Icon: "flask-conical"},
}

var serviceCards = []ServiceCard{
	{Title: "service.research.title", Desc: "service.research.desc", Icon: "beaker"},
	{Title: "service.data.title", Desc: "service.data.desc", Icon: "line-chart"},
	{Title: "service.prototyping.title", Desc: "service.prototyping.desc", Icon: "wrench"},
	{Title: "service.biomech.title", Desc: "service.biomech.desc", Icon: "microscope"},
	{Title: "service.writing.title", Desc: "service.writing.desc", Icon: "flask-conical"},
	{Title: "service.metrology.title", Desc: "service.metrology.desc", Icon: "cpu"},
}

var projectBullets = []string{"projects.bullet1", "projects.bullet2", "projects.bullet3"}

var labNames = []string{"lab.biomechanics", "lab.metrology", "lab.prototyping"}

// singleKeys are rendered directly by key from the templates or Localize.
var singleKeys = []string{
	"brand.tagline", "meta.description", "lang.toggle",
	"hero.title", "hero.subtitle", "hero.cta.contact", "hero.cta.services", "hero.slogan",
	"services.title", "services.intro",
	"projects.title", "projects.desc",
	"labs.title", "labs.note",
	"about.title", "about.body",
	"contact.title", "contact.lead", "contact.location", "contact.instagram",
	"form.name", "form.email", "form.subject", "form.message", "form.send",
	"contact.error.required", "contact.error.email", "contact.error.rate", "contact.error.generic",
	"thanks.title", "thanks.body", "thanks.back",
}

// referencedKeys lists every translation key the page layout uses.
func referencedKeys() []string {
	keys := append([]string(nil), singleKeys...)
	for _, n := range navigation {
		keys = append(keys, n.Label)
	}
	for _, t := range featureTiles {
		keys = append(keys, t.Label)
	}
	for _, c := range serviceCards {
		keys = append(keys, c.Title, c.Desc)
	}
	keys = append(keys, projectBullets...)
	keys = append(keys, labNames...)
	return keys
}

// PageView is the fully localized content of the landing page.
type PageView struct {
	Lang        Lang   `json:"lang"`
	ToggleLang  Lang   `json:"toggle_lang"`
	ToggleLabel string `json:"toggle_label"`
	ToggleURL   string `json:"toggle_url"`
	SiteName    string `json:"site_name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`

	Nav      []NavView           `json:"nav"`
	Hero     HeroView            `json:"hero"`
	Services ServicesView        `json:"services"`
	Project  ProjectView         `json:"project"`
	Labs     LabsView            `json:"labs"`
	About    SectionView         `json:"about"`
	Contact  ContactView         `json:"contact"`
	Social   []config.SocialLink `json:"social"`
	Year     int                 `json:"year"`
}

type NavView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type TileView struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

type HeroView struct {
	Title      string     `json:"title"`
	Subtitle   string     `json:"subtitle"`
	CTAContact string     `json:"cta_contact"`
	CTAService string     `json:"cta_services"`
	Slogan     string     `json:"slogan"`
	Tiles      []TileView `json:"tiles"`
}

type CardView struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Icon  string `json:"icon"`
}

type ServicesView struct {
	Title string     `json:"title"`
	Intro string     `json:"intro"`
	Cards []CardView `json:"cards"`
}

type ProjectView struct {
	Title   string   `json:"title"`
	Desc    string   `json:"desc"`
	Bullets []string `json:"bullets"`
}

type LabsView struct {
	Title string   `json:"title"`
	Note  string   `json:"note"`
	Names []string `json:"names"`
}

type SectionView struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ContactView carries the contact block and the form. Values and Errors are
// only set when the form is re-rendered after a rejected submission.
type ContactView struct {
	Title   string `json:"title"`
	Lead    string `json:"lead"`
	Variant string `json:"variant"`

	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	FollowUs  string `json:"follow_us,omitempty"`

	Action       string `json:"action"`
	RelaySubject string `json:"relay_subject"`
	Next         string `json:"next"`

	NameLabel    string `json:"name_label"`
	EmailLabel   string `json:"email_label"`
	SubjectLabel string `json:"subject_label"`
	MessageLabel string `json:"message_label"`
	SendLabel    string `json:"send_label"`

	Values    relay.Submission  `json:"-"`
	Errors    map[string]string `json:"-"`
	FormError string            `json:"-"`
}

// Direct reports whether the page shows the mail/phone/location block.
func (c ContactView) Direct() bool {
	return c.Variant == config.VariantDirect
}

// Page renders the landing page for one site configuration.
type Page struct {
	Site *config.SiteConfig
	now  func() time.Time
}

// NewPage returns a page for site.
func NewPage(site *config.SiteConfig) *Page {
	return &Page{Site: site, now: time.Now}
}

// Localize builds the whole visible text set for lang in one pass.
func (p *Page) Localize(lang Lang) PageView {
	t := T(lang)
	other := lang.Toggle()

	view := PageView{
		Lang:        lang,
		ToggleLang:  other,
		ToggleLabel: other.Code(),
		ToggleURL:   languageURL("/", "", other),
		SiteName:    p.Site.SiteName,
		Tagline:     t["brand.tagline"],
		Description: t["meta.description"],
		Hero: HeroView{
			Title:      t["hero.title"],
			Subtitle:   t["hero.subtitle"],
			CTAContact: t["hero.cta.contact"],
			CTAService: t["hero.cta.services"],
			Slogan:     t["hero.slogan"],
		},
		Services: ServicesView{
			Title: t["services.title"],
			Intro: t["services.intro"],
		},
		Project: ProjectView{
			Title: t["projects.title"],
			Desc:  t["projects.desc"],
		},
		Labs: LabsView{
			Title: t["labs.title"],
			Note:  t["labs.note"],
		},
		About: SectionView{
			Title: t["about.title"],
			Body:  t["about.body"],
		},
		Contact: p.contact(lang),
		Social:  p.Site.Social,
		Year:    p.now().Year(),
	}

	for _, n := range navigation {
		view.Nav = append(view.Nav, NavView{ID: n.ID, Label: t[n.Label]})
	}
	for _, tile := range featureTiles {
		view.Hero.Tiles = append(view.Hero.Tiles, TileView{Label: t[tile.Label], Icon: tile.Icon})
	}
	for _, c := range serviceCards {
		view.Services.Cards = append(view.Services.Cards, CardView{Title: t[c.Title], Desc: t[c.Desc], Icon: c.Icon})
	}
	for _, b := range projectBullets {
		view.Project.Bullets = append(view.Project.Bullets, t[b])
	}
	for _, l := range labNames {
		view.Labs.Names = append(view.Labs.Names, t[l])
	}
	return view
}

func (p *Page) contact(lang Lang) ContactView {
	t := T(lang)
	c := ContactView{
		Title:        t["contact.title"],
		Lead:         t["contact.lead"],
		Variant:      p.Site.Variant,
		RelaySubject: p.Site.Relay.Subject,
		Next:         localizedURL(p.Site.Relay.Next, lang),
		NameLabel:    t["form.name"],
		EmailLabel:   t["form.email"],
		SubjectLabel: t["form.subject"],
		MessageLabel: t["form.message"],
		SendLabel:    t["form.send"],
	}
	if p.Site.Variant == config.VariantDirect {
		c.Email = p.Site.Contact.Email
		c.Phone = p.Site.Contact.Phone
		c.Location = t["contact.location"]
		c.Action = languageURL("/contact", "", lang)
		c.Next = languageURL("/thanks", "", lang)
	} else {
		c.Instagram = p.Site.Contact.Instagram
		c.FollowUs = t["contact.instagram"]
		c.Action = p.Site.Relay.Action
	}
	return c
}

// withSubmissionErrors returns a copy of view whose form echoes sub and
// shows the localized field errors.
func withSubmissionErrors(view PageView, sub relay.Submission, fieldErrs relay.FieldErrors, formErrKey string) PageView {
	t := T(view.Lang)
	view.Contact.Values = sub
	if len(fieldErrs) > 0 {
		view.Contact.Errors = make(map[string]string, len(fieldErrs))
		for field, key := range fieldErrs {
			view.Contact.Errors[field] = t[key]
		}
	}
	if formErrKey != "" {
		view.Contact.FormError = t[formErrKey]
	}
	return view
}
