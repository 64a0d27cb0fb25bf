// Package views renders the HTML pages of the exam flow.
package views

import (
	"context"
	"strconv"

	appI18n "github.com/pavelanni/quizforge/internal/i18n"
	"github.com/pavelanni/quizforge/internal/model"
	"github.com/pavelanni/quizforge/internal/session"
)

//go:generate templ generate

// NoticeKind selects the styling of a notice.
type NoticeKind string

const (
	NoticeError   NoticeKind = "error"
	NoticeSuccess NoticeKind = "success"
)

// Notice is a one-shot message shown at the top of the page. Reason is an
// optional second message id explaining a failure.
type Notice struct {
	ID     string
	Reason string
	Kind   NoticeKind
}

// PageData is everything the index page needs.
type PageData struct {
	Session session.Snapshot
	Notice  *Notice
	// Demo is true when generation serves the built-in sample exam.
	Demo bool
	// Live is true when an API key is configured.
	Live bool
}

const katexVersion = "0.16.11"

const styles = `
body{font-family:system-ui,-apple-system,"Noto Sans Sinhala",sans-serif;margin:0;background:#f6f7fb;color:#1f2433}
header{background:#fff;border-bottom:1px solid #e3e6ef;padding:.8rem 1.5rem;display:flex;justify-content:space-between;align-items:center}
header h1{font-size:1.2rem;margin:0}
header .tagline{color:#6b7185;font-size:.85rem}
nav a{margin-left:.6rem}
main{max-width:52rem;margin:1.5rem auto;padding:0 1rem}
.card{background:#fff;border:1px solid #e3e6ef;border-radius:.6rem;padding:1.2rem;margin-bottom:1rem}
.banner{padding:.7rem 1rem;border-radius:.5rem;margin-bottom:1rem}
.banner.info{background:#eef4ff;color:#23418a}
.banner.warn{background:#fff6e5;color:#7a4b00}
.notice{padding:.7rem 1rem;border-radius:.5rem;margin-bottom:1rem}
.notice.error{background:#fdecec;color:#8a1f1f}
.notice.success{background:#e9f8ef;color:#1c6b3a}
.inline{display:inline}
button,.button{background:#3552d6;color:#fff;border:0;border-radius:.4rem;padding:.5rem 1rem;cursor:pointer;text-decoration:none;font-size:.95rem}
button.secondary,.button.secondary{background:#e8ebf5;color:#1f2433}
label{display:block;font-weight:600;margin:.6rem 0 .3rem}
select,textarea,input[type=file]{width:100%;padding:.4rem;box-sizing:border-box}
.features{display:flex;gap:1rem}
.features div{flex:1}
.meta{color:#6b7185;font-size:.9rem}
.badge{display:inline-block;background:#eef0f7;border-radius:1rem;padding:0 .6rem;font-size:.8rem;margin-left:.4rem}
.options label{font-weight:400}
.option.correct{color:#1c6b3a;font-weight:600}
.option.wrong{color:#8a1f1f;text-decoration:line-through}
.verdict.correct{color:#1c6b3a}
.verdict.wrong{color:#8a1f1f}
.score{font-size:2.5rem;font-weight:700}
.actions{display:flex;gap:.5rem;flex-wrap:wrap;margin:1rem 0}
.math-error{color:#8a1f1f;font-family:monospace}
`

// katexScript typesets the math spans emitted by mathtext.KaTeX.
const katexScript = `
document.addEventListener("DOMContentLoaded",function(){
  document.querySelectorAll("span.math").forEach(function(el){
    try{katex.render(el.dataset.tex,el,{displayMode:false,throwOnError:true});}
    catch(e){el.classList.add("math-error");}
  });
});
`

var (
	katexCSS = "https://cdn.jsdelivr.net/npm/katex@" + katexVersion + "/dist/katex.min.css"
	katexJS  = "https://cdn.jsdelivr.net/npm/katex@" + katexVersion + "/dist/katex.min.js"
)

var features = []string{"FeatureAI", "FeatureLanguages", "FeatureExport"}

var downloadLinks = []struct{ Query, Label string }{
	{"type=questions&format=pdf", "DownloadQuestions"},
	{"type=full&format=pdf", "DownloadFull"},
	{"type=full&format=xlsx", "DownloadSpreadsheet"},
}

// url prefixes an absolute path with the deployment base path.
func url(ctx context.Context, path string) string {
	return model.BasePathFromContext(ctx) + path
}

func pageTitle(d PageData) string {
	if d.Session.Quiz != nil {
		return d.Session.Quiz.Metadata.Title + " | QuizForge"
	}
	return "QuizForge"
}

func questionCounts() []string {
	var counts []string
	for n := model.MinQuestions; n <= model.MaxQuestions; n += model.QuestionsStep {
		counts = append(counts, strconv.Itoa(n))
	}
	return counts
}

func marks(ctx context.Context, n int) string {
	return appI18n.Tp(ctx, "Marks", n)
}

// reviewClass styles an option on the results page: the key is always
// marked, a wrong pick is struck through.
func reviewClass(q model.Question, option, selected int, answered bool) string {
	switch {
	case option == q.CorrectAnswerIndex:
		return "option correct"
	case answered && option == selected:
		return "option wrong"
	default:
		return "option"
	}
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return strconv.FormatFloat(float64(n)/(1<<20), 'f', 1, 64) + " MB"
	case n >= 1<<10:
		return strconv.FormatFloat(float64(n)/(1<<10), 'f', 1, 64) + " KB"
	default:
		return strconv.Itoa(n) + " B"
	}
}

func optionLetter(i int) string {
	return string(rune('A' + i))
}

func languageName(tag string) string {
	switch tag {
	case "si":
		return "සිංහල"
	case "en":
		return "English"
	default:
		return tag
	}
}

func isSelected(snap session.Snapshot, questionID, option int) bool {
	selected, ok := snap.Selected(questionID)
	return ok && selected == option
}
