package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/aporte/internal/adapters/telegram"
	"github.com/okian/aporte/internal/domain/model"
	"github.com/okian/aporte/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// Mock implementations for testing
type mockEngine struct {
	awarded   int
	total     int
	recorded  []model.Contribution
	standings []model.Row
	history   []model.ArchivedPeriod
}

func (m *mockEngine) RecordContribution(ctx context.Context, c model.Contribution) (int, int, error) {
	m.recorded = append(m.recorded, c)
	return m.awarded, m.total, nil
}

func (m *mockEngine) CurrentStandings(ctx context.Context) ([]model.Row, error) {
	return m.standings, nil
}

func (m *mockEngine) History(ctx context.Context, limit int) ([]model.ArchivedPeriod, error) {
	if limit < len(m.history) {
		return m.history[:limit], nil
	}
	return m.history, nil
}

type mockSender struct {
	sent []sentMessage
}

type sentMessage struct {
	chatID int64
	text   string
}

func (m *mockSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	m.sent = append(m.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func photoUpdate(userID int64, name string, width, height int) telegram.Update {
	return telegram.Update{
		UpdateID: 1,
		Message: &telegram.Message{
			MessageID: 10,
			From:      &telegram.User{ID: userID, FirstName: name},
			Chat:      &telegram.Chat{ID: 500, Type: "group"},
			Photo: []telegram.PhotoSize{
				{FileID: "small", Width: width / 4, Height: height / 4},
				{FileID: "best", Width: width, Height: height},
			},
		},
	}
}

func textUpdate(text string) telegram.Update {
	return telegram.Update{
		UpdateID: 2,
		Message: &telegram.Message{
			MessageID: 11,
			From:      &telegram.User{ID: 7, FirstName: "Alice"},
			Chat:      &telegram.Chat{ID: 500, Type: "group"},
			Text:      text,
		},
	}
}

func TestRouter_Photos(t *testing.T) {
	Convey("Given a router over a scoring engine", t, func() {
		engine := &mockEngine{awarded: 2, total: 5}
		sender := &mockSender{}
		router := telegram.NewRouter(engine, sender)

		Convey("When a photo message arrives", func() {
			router.Handle(context.Background(), photoUpdate(42, "Alice", 1024, 1024))

			Convey("Then the largest size variant should be scored", func() {
				So(len(engine.recorded), ShouldEqual, 1)
				So(engine.recorded[0].UserID, ShouldEqual, model.UserID(42))
				So(engine.recorded[0].DisplayName, ShouldEqual, "Alice")
				So(engine.recorded[0].Width, ShouldEqual, 1024)
				So(engine.recorded[0].Height, ShouldEqual, 1024)
				So(engine.recorded[0].ID, ShouldNotBeEmpty)
			})

			Convey("And the reply should acknowledge the award", func() {
				So(len(sender.sent), ShouldEqual, 1)
				So(sender.sent[0].chatID, ShouldEqual, int64(500))
				So(sender.sent[0].text, ShouldContainSubstring, "Gracias Alice")
				So(sender.sent[0].text, ShouldContainSubstring, "1024x1024")
				So(sender.sent[0].text, ShouldContainSubstring, "+2 puntos")
				So(sender.sent[0].text, ShouldContainSubstring, "Total: 5 pts")
			})
		})

		Convey("When a bot sends a photo", func() {
			u := photoUpdate(42, "Bot", 1024, 1024)
			u.Message.From.IsBot = true
			router.Handle(context.Background(), u)

			Convey("Then it should be ignored", func() {
				So(len(engine.recorded), ShouldEqual, 0)
				So(len(sender.sent), ShouldEqual, 0)
			})
		})

		Convey("When an update has no message", func() {
			router.Handle(context.Background(), telegram.Update{UpdateID: 3})

			Convey("Then nothing should happen", func() {
				So(len(engine.recorded), ShouldEqual, 0)
				So(len(sender.sent), ShouldEqual, 0)
			})
		})
	})
}

func TestRouter_Commands(t *testing.T) {
	Convey("Given a router with standings and history", t, func() {
		engine := &mockEngine{
			standings: []model.Row{
				{UserID: 1, DisplayName: "Alice", Points: 5},
				{UserID: 2, DisplayName: "Bob", Points: 3},
			},
			history: []model.ArchivedPeriod{
				{
					Start:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
					End:     time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
					Ranking: []model.Row{{UserID: 1, DisplayName: "Alice", Points: 4}},
				},
			},
		}
		sender := &mockSender{}
		router := telegram.NewRouter(engine, sender)

		Convey("When /start arrives", func() {
			router.Handle(context.Background(), textUpdate("/start"))

			Convey("Then the greeting should be sent", func() {
				So(len(sender.sent), ShouldEqual, 1)
				So(sender.sent[0].text, ShouldContainSubstring, "bot monitor")
			})
		})

		Convey("When /ranking arrives", func() {
			router.Handle(context.Background(), textUpdate("/ranking"))

			Convey("Then the standings should be listed in order", func() {
				So(len(sender.sent), ShouldEqual, 1)
				So(sender.sent[0].text, ShouldContainSubstring, "Top aportes valiosos")
				So(sender.sent[0].text, ShouldContainSubstring, "1. Alice")
				So(sender.sent[0].text, ShouldContainSubstring, "2. Bob")
			})
		})

		Convey("When /ranking arrives with a bot mention suffix", func() {
			router.Handle(context.Background(), textUpdate("/ranking@aporte_bot"))

			Convey("Then the command should still dispatch", func() {
				So(len(sender.sent), ShouldEqual, 1)
				So(sender.sent[0].text, ShouldContainSubstring, "Top aportes valiosos")
			})
		})

		Convey("When /history arrives", func() {
			router.Handle(context.Background(), textUpdate("/history"))

			Convey("Then closed periods should be summarized", func() {
				So(len(sender.sent), ShouldEqual, 1)
				So(sender.sent[0].text, ShouldContainSubstring, "Histórico de quincenas")
				So(sender.sent[0].text, ShouldContainSubstring, "2025-01-14")
				So(sender.sent[0].text, ShouldContainSubstring, "4 pts")
			})
		})

		Convey("When an unknown command arrives", func() {
			router.Handle(context.Background(), textUpdate("/unknown"))

			Convey("Then it should be ignored", func() {
				So(len(sender.sent), ShouldEqual, 0)
			})
		})

		Convey("When plain text arrives", func() {
			router.Handle(context.Background(), textUpdate("hola"))

			Convey("Then it should be ignored", func() {
				So(len(sender.sent), ShouldEqual, 0)
			})
		})
	})
}

func TestPresenter(t *testing.T) {
	Convey("Given presenter helpers", t, func() {
		Convey("When standings are empty", func() {
			So(telegram.RankingText(nil, 10), ShouldEqual, "Aún no hay aportes registrados.")
		})

		Convey("When standings exceed the row cap", func() {
			rows := []model.Row{
				{UserID: 1, DisplayName: "Alice", Points: 5},
				{UserID: 2, DisplayName: "Bob", Points: 3},
				{UserID: 3, DisplayName: "Carol", Points: 1},
			}
			text := telegram.RankingText(rows, 2)

			So(text, ShouldContainSubstring, "Alice")
			So(text, ShouldContainSubstring, "Bob")
			So(text, ShouldNotContainSubstring, "Carol")
		})

		Convey("When history is empty", func() {
			So(telegram.HistoryText(nil), ShouldEqual, "No hay histórico registrado aún.")
		})

		Convey("When a period has several rows", func() {
			periods := []model.ArchivedPeriod{
				{
					Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
					End:   time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC),
					Ranking: []model.Row{
						{UserID: 1, DisplayName: "Alice", Points: 4},
						{UserID: 2, DisplayName: "Bob", Points: 2},
					},
				},
			}
			text := telegram.HistoryText(periods)

			Convey("Then the total should aggregate all rows", func() {
				So(text, ShouldContainSubstring, "6 pts")
			})
		})
	})
}

func TestClient(t *testing.T) {
	Convey("Given a Bot API test server", t, func() {
		var gotPath string
		var gotBody map[string]interface{}

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotBody = nil
			_ = json.NewDecoder(r.Body).Decode(&gotBody)

			switch {
			case strings.HasSuffix(r.URL.Path, "/getMe"):
				_, _ = w.Write([]byte(`{"ok":true,"result":{"id":99,"is_bot":true,"first_name":"aporte"}}`))
			case strings.HasSuffix(r.URL.Path, "/getUpdates"):
				_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"message_id":1,"chat":{"id":500,"type":"group"},"text":"/start"}}]}`))
			case strings.HasSuffix(r.URL.Path, "/sendMessage"):
				_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":2,"chat":{"id":500,"type":"group"}}}`))
			default:
				_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
			}
		}))
		defer srv.Close()

		client, err := telegram.NewClient("test-token", telegram.WithBaseURL(srv.URL))
		So(err, ShouldBeNil)

		Convey("When calling GetMe", func() {
			user, err := client.GetMe(context.Background())

			So(err, ShouldBeNil)
			So(user.ID, ShouldEqual, int64(99))
			So(gotPath, ShouldEqual, "/bottest-token/getMe")
		})

		Convey("When fetching updates", func() {
			updates, err := client.GetUpdates(context.Background(), 5, 30)

			So(err, ShouldBeNil)
			So(len(updates), ShouldEqual, 1)
			So(updates[0].UpdateID, ShouldEqual, int64(7))
			So(gotBody["offset"], ShouldEqual, float64(5))
			So(gotBody["timeout"], ShouldEqual, float64(30))
		})

		Convey("When sending a message", func() {
			err := client.SendMessage(context.Background(), 500, "hola")

			So(err, ShouldBeNil)
			So(gotBody["chat_id"], ShouldEqual, float64(500))
			So(gotBody["text"], ShouldEqual, "hola")
			So(gotBody["parse_mode"], ShouldEqual, "Markdown")
		})

		Convey("When the API reports an error", func() {
			badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":3}}`))
			}))
			defer badSrv.Close()

			badClient, err := telegram.NewClient("test-token", telegram.WithBaseURL(badSrv.URL))
			So(err, ShouldBeNil)

			sendErr := badClient.SendMessage(context.Background(), 500, "hola")

			So(sendErr, ShouldNotBeNil)
			So(sendErr.Error(), ShouldContainSubstring, "429")
		})

		Convey("When constructing without a token", func() {
			_, err := telegram.NewClient("")
			So(err, ShouldEqual, telegram.ErrMissingToken)
		})
	})
}

func TestPoller(t *testing.T) {
	Convey("Given a poller against a test server", t, func() {
		var served bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/getUpdates") && !served {
				served = true
				_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"message_id":1,"from":{"id":42,"first_name":"Alice"},"chat":{"id":500,"type":"group"},"text":"/start"}}]}`))
				return
			}
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
		}))
		defer srv.Close()

		client, err := telegram.NewClient("test-token", telegram.WithBaseURL(srv.URL))
		So(err, ShouldBeNil)

		engine := &mockEngine{}
		sender := &mockSender{}
		router := telegram.NewRouter(engine, sender)
		poller := telegram.NewPoller(client, router, telegram.WithPollTimeout(1))

		Convey("When running until the first batch is handled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			runErr := poller.Run(ctx)

			Convey("Then it should stop with the context error", func() {
				So(runErr, ShouldEqual, context.DeadlineExceeded)
			})

			Convey("And the update should have been dispatched", func() {
				So(len(sender.sent), ShouldEqual, 1)
				So(sender.sent[0].text, ShouldContainSubstring, "bot monitor")
			})
		})
	})
}
