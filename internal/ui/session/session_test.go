package session

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bigkaa/stroydoc/internal/domain/appstate"
	"github.com/bigkaa/stroydoc/internal/domain/gallery"
)

// TestTicketEncryptDecryptRoundTrip проверяет шифрование и дешифрование билета.
func TestTicketEncryptDecryptRoundTrip(t *testing.T) {
	m, err := NewManager("", false, time.Hour)
	if err != nil {
		t.Fatalf("Ошибка создания Manager: %v", err)
	}

	original := &Ticket{ID: "session-1", IssuedAt: time.Now().Unix()}
	encrypted, err := m.Encrypt(original)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	decrypted, err := m.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}
	if *decrypted != *original {
		t.Errorf("билет = %+v, ожидается %+v", decrypted, original)
	}
}

// TestTicketDecryptWithWrongKey проверяет, что чужой ключ не подходит.
func TestTicketDecryptWithWrongKey(t *testing.T) {
	m1, _ := NewManager("key-one", false, time.Hour)
	m2, _ := NewManager("key-two", false, time.Hour)

	encrypted, err := m1.Encrypt(&Ticket{ID: "s"})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if _, err := m2.Decrypt(encrypted); err == nil {
		t.Error("Ожидалась ошибка при дешифровании чужим ключом")
	}
}

// TestTicketDecryptGarbage проверяет отказ на повреждённых данных.
func TestTicketDecryptGarbage(t *testing.T) {
	m, _ := NewManager("key", false, time.Hour)
	for _, v := range []string{"", "not-base64!", "AAAA"} {
		if _, err := m.Decrypt(v); err == nil {
			t.Errorf("Decrypt(%q) ожидается ошибка", v)
		}
	}
}

// TestCookieSetAndGet проверяет установку и чтение cookie.
func TestCookieSetAndGet(t *testing.T) {
	m, _ := NewManager("test-key", false, 12*time.Hour)

	w := httptest.NewRecorder()
	if err := m.SetCookie(w, &Ticket{ID: "abc", IssuedAt: 1}); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie не установлен")
	}
	cookie := cookies[0]
	if cookie.Name != CookieName || cookie.Path != "/" {
		t.Errorf("cookie = %s path %s", cookie.Name, cookie.Path)
	}
	if cookie.MaxAge != 12*60*60 {
		t.Errorf("MaxAge = %d, ожидается %d", cookie.MaxAge, 12*60*60)
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Error("Cookie должен быть HttpOnly и SameSite=Lax")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	got, err := m.FromRequest(req)
	if err != nil || got == nil || got.ID != "abc" {
		t.Fatalf("FromRequest() = %+v, %v", got, err)
	}
}

// TestCookieMissing проверяет, что отсутствие cookie возвращает nil, nil.
func TestCookieMissing(t *testing.T) {
	m, _ := NewManager("test-key", false, time.Hour)
	got, err := m.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || got != nil {
		t.Errorf("FromRequest() = %+v, %v; ожидается nil, nil", got, err)
	}
}

func TestStore_NewSessionIsInitial(t *testing.T) {
	s := NewStore(10, time.Hour)
	st := s.State("a")
	if st.Section != appstate.SectionDashboard || st.DialogOpen || st.Gallery.Open {
		t.Errorf("начальное состояние = %+v", st)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, ожидается 1", s.Len())
	}
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := NewStore(10, time.Hour)
	s.Dispatch("a", appstate.OpenDialog{})
	s.Dispatch("a", appstate.Navigate{Section: appstate.SectionReports})

	if a := s.State("a"); !a.DialogOpen || a.Section != appstate.SectionReports {
		t.Errorf("сессия a = %+v", a)
	}
	if b := s.State("b"); b.DialogOpen || b.Section != appstate.SectionDashboard {
		t.Errorf("сессия b затронута: %+v", b)
	}
}

func TestStore_EvictsOldest(t *testing.T) {
	s := NewStore(2, time.Hour)
	s.Dispatch("a", appstate.OpenDialog{})
	s.Dispatch("b", appstate.OpenDialog{})
	s.Dispatch("c", appstate.OpenDialog{})

	if s.Len() != 2 {
		t.Errorf("Len() = %d, ожидается 2", s.Len())
	}
	// Вытесненная сессия начинается заново
	if st := s.State("a"); st.DialogOpen {
		t.Error("вытесненная сессия должна начаться с начального состояния")
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := NewStore(10, time.Hour)
	photos := []string{"1", "2", "3", "4", "5"}
	s.Dispatch("g", appstate.Gallery{Event: gallery.Select{ActID: "1", Photos: photos}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch("g", appstate.Gallery{Event: gallery.Next{}})
		}()
	}
	wg.Wait()

	// 50 шагов по кругу из 5 возвращают индекс в 0
	if got := s.State("g").Gallery.Index; got != 0 {
		t.Errorf("Index = %d после 50 шагов, ожидается 0", got)
	}
}
