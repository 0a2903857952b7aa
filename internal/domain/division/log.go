package division

import (
	"context"
	"html"
	"strconv"
	"time"

	"github.com/valyala/bytebufferpool"
)

// Kind separates regular updates from reverts.
type Kind string

const (
	KindUpdate Kind = "update"
	KindRevert Kind = "revert"
)

// UpdateLog is the stored record of one division update.
type UpdateLog struct {
	ID        int64
	Title     string
	Kind      Kind
	Rows      []Row
	HTML      string
	CreatedAt time.Time
}

// Title formats a log title for the club calendar day of at.
func Title(kind Kind, at time.Time) string {
	label := "Division update"
	if kind == KindRevert {
		label = "Division revert"
	}
	return label + " - " + at.Format("2006-01-02")
}

// RenderHTML renders rows as the announcement table.
func RenderHTML(rows []Row) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	cell := func(tag, value string) {
		_, _ = buf.WriteString("<" + tag + ` class="border border-gray-300 p-2">`)
		_, _ = buf.WriteString(html.EscapeString(value))
		_, _ = buf.WriteString("</" + tag + ">")
	}

	_, _ = buf.WriteString(`<div class="bg-gray-100"><table class="w-full bg-white border-collapse border border-gray-300 text-center">`)
	_, _ = buf.WriteString(`<thead class="bg-gray-100"><tr>`)
	cell("th", strconv.Itoa(len(rows))+" players")
	cell("th", "Before")
	cell("th", "After")
	cell("th", "Win rate")
	cell("th", "Change")
	_, _ = buf.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		_, _ = buf.WriteString("<tr>")
		cell("td", row.Name)
		cell("td", rankLabel(row.PreviousRank))
		cell("td", rankLabel(row.NewRank))
		cell("td", strconv.FormatFloat(row.WinRate, 'f', -1, 64)+"%")
		cell("td", string(row.Movement))
		_, _ = buf.WriteString("</tr>")
	}
	_, _ = buf.WriteString("</tbody></table></div>")
	return buf.String()
}

func rankLabel(rank *int) string {
	if rank == nil || *rank == 0 {
		return "-"
	}
	return strconv.Itoa(*rank)
}

// Repository describes update log persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, log *UpdateLog) error
	Get(ctx context.Context, id int64) (UpdateLog, bool, error)
	// Latest returns the newest log of kind.
	Latest(ctx context.Context, kind Kind) (UpdateLog, bool, error)
	List(ctx context.Context, limit int) ([]UpdateLog, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
