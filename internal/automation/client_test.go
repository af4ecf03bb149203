package automation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autowhapp/platform/internal/business"
	"github.com/autowhapp/platform/internal/catalog"
	"github.com/autowhapp/platform/internal/schedule"
)

func TestBuildContext(t *testing.T) {
	b := &business.Business{
		ID:         1,
		Name:       "Patitas Felices",
		Phone:      "541128704037",
		Context:    "Eres el bot de asistencia",
		BotEnabled: true,
		Modules:    business.Modules{Reservations: true},
		Scheduling: business.Scheduling{
			AppointmentDuration: 60, BreakBetween: 15,
			DayOpenTime: "09:00", DayCloseTime: "12:00",
		},
	}
	free := []schedule.Slot{{Start: 540, End: 600}, {Start: 615, End: 675}}

	ctx := BuildContext(b, nil, []catalog.Product{{Name: "Shampoo", Price: 3500}}, free)

	assert.Equal(t, "Patitas Felices", ctx.Name)
	assert.True(t, ctx.ReservationsModule)
	assert.Equal(t, "No hay FAQs disponibles.", ctx.FAQsText)
	assert.Contains(t, ctx.ProductsText, "Shampoo")
	require.Len(t, ctx.Slots, 2)
	assert.Equal(t, SlotView{Start: "09:00", End: "10:00"}, ctx.Slots[0])
	assert.Equal(t, SlotView{Start: "10:15", End: "11:15"}, ctx.Slots[1])
}

func TestProcessPostsPayload(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("Hola, ¿en qué puedo ayudarte?\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	reply, err := client.Process(context.Background(), Payload{
		Message:      "hola",
		ClientNumber: "5491130000000@c.us",
		Business:     BusinessContext{ID: 1, Name: "Patitas Felices"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hola, ¿en qué puedo ayudarte?", reply)
	assert.Equal(t, "hola", got.Message)
	assert.Equal(t, int64(1), got.Business.ID)
}

func TestProcessNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Process(context.Background(), Payload{Message: "hola"})
	assert.Error(t, err)
}

func TestProcessEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   "))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Process(context.Background(), Payload{Message: "hola"})
	assert.Error(t, err)
}
