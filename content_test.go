package main

import (
	"testing"
	"time"

	"bamtech/internal/config"
	"bamtech/internal/relay"
)

func newTestPage(variant string) *Page {
	site := config.DefaultSiteConfig()
	site.Variant = variant
	p := NewPage(site)
	p.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestLocalizeUsesOneLanguage(t *testing.T) {
	t.Parallel()

	p := newTestPage(config.VariantRelay)
	for _, lang := range supportedLangs {
		v := p.Localize(lang)
		pick := func(key string) string { return texts[key].In(lang) }

		if v.Lang != lang || v.ToggleLang != lang.Toggle() {
			t.Fatalf("Localize(%s) lang = %s toggle = %s", lang, v.Lang, v.ToggleLang)
		}
		if v.ToggleLabel != lang.Toggle().Code() {
			t.Fatalf("Localize(%s) toggle label = %q", lang, v.ToggleLabel)
		}
		if v.Hero.Title != pick("hero.title") || v.Hero.Subtitle != pick("hero.subtitle") {
			t.Fatalf("Localize(%s) hero = %+v", lang, v.Hero)
		}
		for i, n := range v.Nav {
			if n.ID != navigation[i].ID || n.Label != pick(navigation[i].Label) {
				t.Fatalf("Localize(%s) nav[%d] = %+v", lang, i, n)
			}
		}
		for i, tile := range v.Hero.Tiles {
			if tile.Label != pick(featureTiles[i].Label) {
				t.Fatalf("Localize(%s) tile[%d] = %q", lang, i, tile.Label)
			}
		}
		for i, c := range v.Services.Cards {
			if c.Title != pick(serviceCards[i].Title) || c.Desc != pick(serviceCards[i].Desc) {
				t.Fatalf("Localize(%s) card[%d] = %+v", lang, i, c)
			}
		}
		for i, b := range v.Project.Bullets {
			if b != pick(projectBullets[i]) {
				t.Fatalf("Localize(%s) bullet[%d] = %q", lang, i, b)
			}
		}
		for i, name := range v.Labs.Names {
			if name != pick(labNames[i]) {
				t.Fatalf("Localize(%s) lab[%d] = %q", lang, i, name)
			}
		}
		if v.Contact.NameLabel != pick("form.name") || v.Contact.SendLabel != pick("form.send") {
			t.Fatalf("Localize(%s) form labels = %+v", lang, v.Contact)
		}
		if v.Year != 2025 {
			t.Fatalf("Localize(%s) year = %d", lang, v.Year)
		}
	}
}

func TestNavigationOrderIsStable(t *testing.T) {
	t.Parallel()

	p := newTestPage(config.VariantRelay)
	tr, en := p.Localize(LangTR), p.Localize(LangEN)
	if len(tr.Nav) != len(navigation) || len(en.Nav) != len(navigation) {
		t.Fatalf("nav lengths = %d, %d; want %d", len(tr.Nav), len(en.Nav), len(navigation))
	}
	want := []string{"services", "projects", "labs", "about", "contact"}
	for i, id := range want {
		if tr.Nav[i].ID != id || en.Nav[i].ID != id {
			t.Fatalf("nav[%d] = %s/%s, want %s", i, tr.Nav[i].ID, en.Nav[i].ID, id)
		}
	}
}

func TestContactVariants(t *testing.T) {
	t.Parallel()

	site := config.DefaultSiteConfig()

	relayView := newTestPage(config.VariantRelay).Localize(LangEN).Contact
	if relayView.Direct() {
		t.Fatal("relay variant reports Direct")
	}
	if relayView.Action != site.Relay.Action || relayView.Next != site.Relay.Next+"?lang=en" {
		t.Fatalf("relay form = %q next %q", relayView.Action, relayView.Next)
	}
	if relayView.Instagram == "" || relayView.FollowUs != "Follow us on Instagram" {
		t.Fatalf("relay contact block = %+v", relayView)
	}
	if relayView.Email != "" || relayView.Phone != "" {
		t.Fatalf("relay variant leaked direct contact details: %+v", relayView)
	}

	directView := newTestPage(config.VariantDirect).Localize(LangEN).Contact
	if !directView.Direct() {
		t.Fatal("direct variant does not report Direct")
	}
	if directView.Action != "/contact?lang=en" || directView.Next != "/thanks?lang=en" {
		t.Fatalf("direct form = %q next %q", directView.Action, directView.Next)
	}
	if directView.Email != site.Contact.Email || directView.Location != "Türkiye" {
		t.Fatalf("direct contact block = %+v", directView)
	}
	if trNext := newTestPage(config.VariantRelay).Localize(LangTR).Contact.Next; trNext != site.Relay.Next+"?lang=tr" {
		t.Fatalf("relay next for tr = %q", trNext)
	}
	if directView.RelaySubject != site.Relay.Subject {
		t.Fatalf("relay subject = %q", directView.RelaySubject)
	}
}

func TestWithSubmissionErrors(t *testing.T) {
	t.Parallel()

	v := newTestPage(config.VariantDirect).Localize(LangTR)
	sub := relay.Submission{Name: "Ada", Email: "bad"}
	got := withSubmissionErrors(v, sub, relay.FieldErrors{relay.FieldEmail: "contact.error.email"}, "contact.error.rate")

	if got.Contact.Values.Name != "Ada" {
		t.Fatalf("values not echoed: %+v", got.Contact.Values)
	}
	if got.Contact.Errors[relay.FieldEmail] != texts["contact.error.email"].TR {
		t.Fatalf("email error = %q", got.Contact.Errors[relay.FieldEmail])
	}
	if got.Contact.FormError != texts["contact.error.rate"].TR {
		t.Fatalf("form error = %q", got.Contact.FormError)
	}
	if v.Contact.Errors != nil {
		t.Fatal("original view was modified")
	}
}
