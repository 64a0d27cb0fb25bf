package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	return WithLocalizer(context.Background(), lang)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "GenerateExam"); got != "Generate Exam" {
		t.Errorf("T(GenerateExam) = %q, want 'Generate Exam'", got)
	}
	if got := T(ctx, "GradeOutstanding"); got != "Outstanding performance!" {
		t.Errorf("T(GradeOutstanding) = %q", got)
	}
}

func TestTranslateSinhala(t *testing.T) {
	ctx := initLang(t, "si")

	if got := T(ctx, "GenerateExam"); got != "විභාගය සාදන්න" {
		t.Errorf("T(GenerateExam) = %q, want 'විභාගය සාදන්න'", got)
	}
	if got := T(ctx, "LanguageSinhala"); got != "සිංහල" {
		t.Errorf("T(LanguageSinhala) = %q", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Tp(ctx, "Marks", 1); got != "1 mark" {
		t.Errorf("Tp(Marks, 1) = %q, want '1 mark'", got)
	}
	if got := Tp(ctx, "Marks", 5); got != "5 marks" {
		t.Errorf("Tp(Marks, 5) = %q, want '5 marks'", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "CorrectCount", map[string]any{"Correct": 7, "Total": 10})
	if got != "7 of 10 correct" {
		t.Errorf("Td(CorrectCount) = %q, want '7 of 10 correct'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "NonExistentKey"); got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
	if Has("NonExistentKey") {
		t.Error("Has(NonExistentKey) = true")
	}
	if !Has("NoticeBusy") || !Has("Marks") {
		t.Error("Has should find defined messages")
	}
}

func TestLocalesComplete(t *testing.T) {
	initLang(t, "en")
	en := WithLocalizer(context.Background(), "en")
	si := WithLocalizer(context.Background(), "si")
	for _, id := range []string{"HeroTitle", "NoticeAccessDenied", "GradeMoreStudy", "RetakeExam", "DownloadFull", "ReasonRateLimited"} {
		if T(en, id) == T(si, id) {
			t.Errorf("%s is not translated to Sinhala", id)
		}
	}
}

func TestMatch(t *testing.T) {
	initLang(t, "en")
	tests := []struct {
		prefs []string
		want  string
	}{
		{nil, "en"},
		{[]string{"si"}, "si"},
		{[]string{"si-LK,si;q=0.9,en;q=0.5"}, "si"},
		{[]string{"fr-FR"}, "en"},
		{[]string{"", "si"}, "si"},
		{[]string{"!!"}, "en"},
	}
	for _, tt := range tests {
		if got := Match(tt.prefs...); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.prefs, got, tt.want)
		}
	}
	if langs := Languages(); len(langs) != 2 || langs[0] != "en" {
		t.Errorf("Languages() = %v", langs)
	}
}

func TestMiddleware(t *testing.T) {
	initLang(t, "en")
	var got string
	h := Middleware(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Lang(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/?lang=si", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got != "si" {
		t.Errorf("query lang = %q", got)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "si" {
		t.Fatalf("expected lang cookie, got %v", cookies)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	req.Header.Set("Accept-Language", "en")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "si" {
		t.Errorf("cookie should win over Accept-Language, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "si-LK")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "si" {
		t.Errorf("Accept-Language = %q", got)
	}
}
