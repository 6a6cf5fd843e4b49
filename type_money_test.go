package tienda

import (
	"encoding/json"
	"testing"
)

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{m: USD(5.5), want: "$5.50"},
		{m: USD(1234.567), want: "$1,234.57"},
		{m: NO(2.5), want: "2.50"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestMoney_Round2(t *testing.T) {
	testCases := []struct {
		m, want Money
	}{
		{m: USD(2.345), want: USD(2.35)},
		{m: USD(2.344), want: USD(2.34)},
		{m: USD(-2.345), want: USD(-2.35)},
		{m: USD(5.5), want: USD(5.5)},
	}
	for _, tc := range testCases {
		if got := tc.m.Round2(); !got.Equal(tc.want) {
			t.Errorf("%v.Round2() = %v, want %v", tc.m.Decimal(), got, tc.want)
		}
	}
}

func TestMoney_WeakCurrency(t *testing.T) {
	got := NO(1).Add(USD(2))
	if got.Currency() != "USD" {
		t.Errorf("weak + USD currency = %q, want USD", got.Currency())
	}
	if !NO(3).Equal(USD(3)) {
		t.Error("weak money should equal the same amount in any currency")
	}
	if M(3, "EUR").Equal(USD(3)) {
		t.Error("EUR should not equal USD")
	}
}

func TestMoney_Percent(t *testing.T) {
	if got := USD(6).Percent(USD(11)); !got.Equal(54.54545) {
		t.Errorf("Percent = %v, want 54.545...", float64(got))
	}
	if got := USD(6).Percent(USD(0)); got != 0 {
		t.Errorf("Percent of 0 = %v, want 0", got)
	}
	if got := USD(6).Percent(USD(11)).String(); got != "54.5%" {
		t.Errorf("String() = %q, want 54.5%%", got)
	}
}

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(USD(5.5))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"currency":"USD","amount":5.5}` {
		t.Errorf("Marshal = %s", data)
	}
	var m Money
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !m.Equal(USD(5.5)) || m.Currency() != "USD" {
		t.Errorf("Unmarshal = %v, want USD 5.5", m)
	}
	if err := json.Unmarshal([]byte(`7.25`), &m); err != nil {
		t.Fatalf("Unmarshal bare amount: %v", err)
	}
	if !m.Equal(NO(7.25)) || m.Currency() != "" {
		t.Errorf("Unmarshal bare amount = %v, want weak 7.25", m)
	}
}
