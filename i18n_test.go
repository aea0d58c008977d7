package main

import (
	"strings"
	"testing"
)

func TestToggleIsInvolution(t *testing.T) {
	t.Parallel()

	for _, lang := range supportedLangs {
		if got := lang.Toggle().Toggle(); got != lang {
			t.Fatalf("%s.Toggle().Toggle() = %s, want %s", lang, got, lang)
		}
		if lang.Toggle() == lang {
			t.Fatalf("%s.Toggle() did not change the language", lang)
		}
	}
	if DefaultLang.Toggle() != LangEN {
		t.Fatalf("first toggle from the initial language = %s, want en", DefaultLang.Toggle())
	}
}

func TestParseLang(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   Lang
		wantOK bool
	}{
		{in: "tr", want: LangTR, wantOK: true},
		{in: "en", want: LangEN, wantOK: true},
		{in: "EN", want: LangEN, wantOK: true},
		{in: "en-US", want: LangEN, wantOK: true},
		{in: "tr-TR", want: LangTR, wantOK: true},
		{in: " en ", want: LangEN, wantOK: true},
		{in: "de", want: DefaultLang, wantOK: false},
		{in: "", want: DefaultLang, wantOK: false},
		{in: "not a tag!", want: DefaultLang, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseLang(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("ParseLang(%q) = %s, %v; want %s, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNegotiateLang(t *testing.T) {
	t.Parallel()

	tests := []struct {
		accept string
		want   Lang
	}{
		{accept: "en-US,en;q=0.9", want: LangEN},
		{accept: "tr-TR,tr;q=0.9,en;q=0.8", want: LangTR},
		{accept: "de-DE,de;q=0.9,en;q=0.5", want: LangEN},
		{accept: "fr", want: DefaultLang},
		{accept: "", want: DefaultLang},
	}
	for _, tt := range tests {
		if got := NegotiateLang(tt.accept); got != tt.want {
			t.Fatalf("NegotiateLang(%q) = %s, want %s", tt.accept, got, tt.want)
		}
	}
}

func TestLanguageURL(t *testing.T) {
	t.Parallel()

	if got := languageURL("/", "", LangEN); got != "/?lang=en" {
		t.Fatalf("languageURL = %q", got)
	}
	got := languageURL("/thanks", "lang=tr&ref=ad", LangEN)
	if got != "/thanks?lang=en&ref=ad" {
		t.Fatalf("languageURL = %q", got)
	}
	for _, path := range []string{"", "//evil.example", "/\\evil.example", "https://evil.example/x"} {
		if got := languageURL(path, "", LangTR); got != "/?lang=tr" {
			t.Fatalf("languageURL(%q) = %q, want /?lang=tr", path, got)
		}
	}
}

func TestLocalizedURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		lang Lang
		want string
	}{
		{raw: "https://bamtechcenter.com/thanks", lang: LangEN, want: "https://bamtechcenter.com/thanks?lang=en"},
		{raw: "https://bamtechcenter.com/thanks?lang=tr&src=form", lang: LangEN, want: "https://bamtechcenter.com/thanks?lang=en&src=form"},
		{raw: "/thanks", lang: LangTR, want: "/thanks?lang=tr"},
		{raw: "", lang: LangEN, want: ""},
	}
	for _, tt := range tests {
		if got := localizedURL(tt.raw, tt.lang); got != tt.want {
			t.Fatalf("localizedURL(%q, %s) = %q, want %q", tt.raw, tt.lang, got, tt.want)
		}
	}
}

func TestTextIn(t *testing.T) {
	t.Parallel()

	txt := Text{TR: "Hizmetler", EN: "Services"}
	if txt.In(LangTR) != "Hizmetler" || txt.In(LangEN) != "Services" {
		t.Fatalf("In() picked the wrong member: %+v", txt)
	}
}

func TestTranslationTablesComplete(t *testing.T) {
	t.Parallel()

	if err := validateTexts(texts, referencedKeys()); err != nil {
		t.Fatal(err)
	}
	for key, txt := range texts {
		if T(LangTR)[key] != txt.TR || T(LangEN)[key] != txt.EN {
			t.Fatalf("T() tables disagree with texts for %q", key)
		}
	}
}

func TestValidateTextsReportsGaps(t *testing.T) {
	t.Parallel()

	table := map[string]Text{
		"a": {TR: "bir", EN: ""},
		"b": {TR: "", EN: "two"},
	}
	err := validateTexts(table, []string{"a", "c"})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"a[en]", "b[tr]", "c"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}
