package notifier_test

import (
	"strings"
	"testing"

	"github.com/Houeta/storewatch/internal/models"
	"github.com/Houeta/storewatch/internal/services/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priceChange(oldPrice, newPrice string) models.ChangeInfo {
	oldP := models.Product{Title: "Lampada", Price: oldPrice, Link: "https://www.amazon.it/dp/L1"}
	newP := oldP
	newP.Price = newPrice
	return models.ChangeInfo{
		Key:    "https://www.amazon.it/dp/L1",
		Old:    oldP,
		New:    newP,
		Fields: []models.FieldDiff{{Field: models.FieldPrice, Old: oldPrice, New: newPrice}},
	}
}

func kinds(ns []notifier.Notification) []notifier.Kind {
	out := make([]notifier.Kind, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Kind)
	}
	return out
}

func TestClassify_NotificationsDisabled(t *testing.T) {
	t.Parallel()

	prefs := models.DefaultPreferences()
	prefs.NotificationsEnabled = false
	changes := models.Changes{
		Added:   []models.Product{{Title: "A"}},
		Changed: []models.ChangeInfo{priceChange("100,00 €", "10,00 €")},
	}

	assert.Empty(t, notifier.Classify(changes, prefs))
}

func TestClassify_EmptyChanges(t *testing.T) {
	t.Parallel()

	assert.Empty(t, notifier.Classify(models.Changes{}, models.DefaultPreferences()))
}

func TestCountChanged(t *testing.T) {
	t.Parallel()

	got := notifier.CountChanged(3, 2, models.DefaultPreferences())
	require.Len(t, got, 1)
	assert.Equal(t, notifier.KindCount, got[0].Kind)
	assert.True(t, got[0].TextOnly)
	assert.Equal(t, "ℹ️ Il numero totale di prodotti è cambiato da 3 a 2.", got[0].Text)

	assert.Empty(t, notifier.CountChanged(2, 2, models.DefaultPreferences()))

	muted := models.DefaultPreferences()
	muted.NotificationsEnabled = false
	assert.Empty(t, notifier.CountChanged(3, 2, muted))
}

func TestClassify_PriceDecreaseThreshold(t *testing.T) {
	t.Parallel()

	changes := models.Changes{Changed: []models.ChangeInfo{priceChange("100,00 €", "50,00 €")}}

	testCases := []struct {
		name      string
		threshold int
		want      []notifier.Kind
	}{
		{name: "any decrease", threshold: 0, want: []notifier.Kind{notifier.KindSummary, notifier.KindChanged}},
		{name: "drop above threshold", threshold: 40, want: []notifier.Kind{notifier.KindSummary, notifier.KindChanged}},
		{name: "drop equal to threshold", threshold: 50, want: []notifier.Kind{notifier.KindSummary, notifier.KindChanged}},
		{name: "drop below threshold", threshold: 60, want: []notifier.Kind{notifier.KindSummary}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			prefs := models.DefaultPreferences()
			prefs.PriceDecreaseThreshold = tc.threshold

			assert.Equal(t, tc.want, kinds(notifier.Classify(changes, prefs)))
		})
	}
}

func TestClassify_ChangedRules(t *testing.T) {
	t.Parallel()

	titleOnly := models.ChangeInfo{
		Key:    "b",
		Old:    models.Product{Title: "Old"},
		New:    models.Product{Title: "New"},
		Fields: []models.FieldDiff{{Field: models.FieldTitle, Old: "Old", New: "New"}},
	}

	testCases := []struct {
		name   string
		change models.ChangeInfo
		prefs  func(*models.Preferences)
		want   bool
	}{
		{
			name:   "increase ignored by default",
			change: priceChange("50,00 €", "60,00 €"),
			prefs:  func(*models.Preferences) {},
			want:   false,
		},
		{
			name:   "increase with opt-in",
			change: priceChange("50,00 €", "60,00 €"),
			prefs:  func(p *models.Preferences) { p.NotifyPriceIncrease = true },
			want:   true,
		},
		{
			name:   "non-price change ignored by default",
			change: titleOnly,
			prefs:  func(*models.Preferences) {},
			want:   false,
		},
		{
			name:   "non-price change with all changes",
			change: titleOnly,
			prefs:  func(p *models.Preferences) { p.NotifyAllChanges = true },
			want:   true,
		},
		{
			name:   "unparseable price is another change",
			change: priceChange("prezzo non disponibile", "10,00 €"),
			prefs:  func(*models.Preferences) {},
			want:   false,
		},
		{
			name:   "equal amounts written differently",
			change: priceChange("1.299,00 €", "1299,00 €"),
			prefs:  func(p *models.Preferences) { p.NotifyPriceIncrease = true },
			want:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			prefs := models.DefaultPreferences()
			tc.prefs(&prefs)

			got := notifier.Classify(models.Changes{Changed: []models.ChangeInfo{tc.change}}, prefs)

			require.NotEmpty(t, got)
			assert.Equal(t, notifier.KindSummary, got[0].Kind)
			assert.Equal(t, tc.want, len(got) == 2)
		})
	}
}

func TestClassify_AddedAndRemoved(t *testing.T) {
	t.Parallel()

	added := models.Product{Title: "Nuovo", Image: "https://m.media-amazon.com/images/I/n.jpg"}
	removed := models.Product{Title: "Vecchio", Image: "https://m.media-amazon.com/images/I/v.jpg"}
	changes := models.Changes{Added: []models.Product{added}, Removed: []models.Product{removed}}

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		got := notifier.Classify(changes, models.DefaultPreferences())

		require.Len(t, got, 3)
		assert.Equal(t, notifier.KindAdded, got[1].Kind)
		assert.Equal(t, added, got[1].Product)
		assert.False(t, got[1].TextOnly)
		assert.Equal(t, notifier.KindRemoved, got[2].Kind)
		assert.Equal(t, removed, got[2].Product)
		assert.True(t, got[2].TextOnly)
	})

	t.Run("only all changes", func(t *testing.T) {
		t.Parallel()

		prefs := models.DefaultPreferences()
		prefs.NotifyNew = false
		prefs.NotifyRemoved = false
		prefs.NotifyAllChanges = true

		got := notifier.Classify(changes, prefs)

		assert.Equal(t, []notifier.Kind{notifier.KindSummary, notifier.KindRemoved}, kinds(got))
	})

	t.Run("summary counts the whole diff", func(t *testing.T) {
		t.Parallel()

		prefs := models.DefaultPreferences()
		prefs.NotifyNew = false
		prefs.NotifyRemoved = false

		got := notifier.Classify(changes, prefs)

		require.Len(t, got, 1)
		assert.Contains(t, got[0].Text, "Nuovi: 1")
		assert.Contains(t, got[0].Text, "Rimossi: 1")
		assert.Contains(t, got[0].Text, "Modificati: 0")
	})
}

func TestClassify_RendersAllFieldDiffs(t *testing.T) {
	t.Parallel()

	longLink := "https://www.amazon.it/dp/B0" + strings.Repeat("X", 40)
	change := models.ChangeInfo{
		Key: "lampada",
		Old: models.Product{Title: "Lampada <LED>", Price: "100,00 €"},
		New: models.Product{Title: "Lampada <LED>", Price: "50,00 €", Link: longLink, Rating: "4,5 su 5"},
		Fields: []models.FieldDiff{
			{Field: models.FieldPrice, Old: "100,00 €", New: "50,00 €"},
			{Field: models.FieldLink, Old: "", New: longLink},
			{Field: models.FieldRating, Old: "", New: "4,5 su 5"},
		},
	}

	got := notifier.Classify(models.Changes{Changed: []models.ChangeInfo{change}}, models.DefaultPreferences())

	require.Len(t, got, 2)
	text := got[1].Text
	assert.Contains(t, text, "<b>Lampada &lt;LED&gt;</b>")
	assert.Contains(t, text, "• Prezzo: <s>100,00 €</s> → <b>50,00 €</b> 📉 -50%")
	assert.Contains(t, text, "• Link: <s>N/D</s> → <b>"+longLink[:47]+"...</b>")
	assert.Contains(t, text, "• Valutazione: <s>N/D</s> → <b>4,5 su 5</b>")
	assert.Equal(t, change.New, got[1].Product)
}

func TestRenderProduct(t *testing.T) {
	t.Parallel()

	got := notifier.RenderProduct(models.Product{
		Title:  "Striscia & co",
		Link:   "https://www.amazon.it/dp/S1?a=1&b=2",
		Rating: "4,1 su 5",
	})

	assert.Equal(t, "<b>Striscia &amp; co</b>\n"+
		"💰 Prezzo: N/D\n"+
		"⭐ Valutazione: 4,1 su 5\n"+
		"🔗 <a href=\"https://www.amazon.it/dp/S1?a=1&amp;b=2\">Vedi su Amazon</a>", got)
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{in: "1.299,00 €", want: 1299, wantOK: true},
		{in: "49,99€", want: 49.99, wantOK: true},
		{in: "1.299 €", want: 1299, wantOK: true},
		{in: "12.5", want: 12.5, wantOK: true},
		{in: "1.299.000", want: 1299000, wantOK: true},
		{in: "100 €", want: 100, wantOK: true},
		{in: "€", wantOK: false},
		{in: "gratis", wantOK: false},
		{in: "1,2,3 €", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, ok := notifier.ParsePrice(tc.in)

			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.InDelta(t, tc.want, got, 1e-9)
			}
		})
	}
}
