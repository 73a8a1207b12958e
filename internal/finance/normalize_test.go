package finance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loadNow = time.Date(2024, time.May, 20, 9, 0, 0, 0, time.UTC)

func decode(t *testing.T, doc string) map[string]interface{} {
	t.Helper()
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))
	return raw
}

func TestNormalize_EmptyDocument(t *testing.T) {
	data, _ := Normalize(map[string]interface{}{}, loadNow)

	want := NewState(loadNow)
	want.Goal = nil
	assert.Equal(t, want, data.FinanceState)
	assert.Equal(t, DefaultChatHistory(), data.ChatHistory)
	assert.Equal(t, loadNow, data.CreatedAt)
}

func TestNormalize_LegacyRecord(t *testing.T) {
	raw := decode(t, `{
		"financeState": {
			"incomeSources": [{"id": "i1", "name": "Salary", "amount": 9000, "date": "2024-05-01T08:00:00.000Z"}],
			"expenses": [
				{"id": "e1", "name": "Phone", "amount": "120.5", "category": "Gadgets", "date": "2024-05-02T10:00:00Z"},
				{"id": "e2", "name": "Rent", "amount": 3000, "category": "كراء", "date": "2024-05-01"}
			]
		}
	}`)

	data, repairs := Normalize(raw, loadNow)
	s := data.FinanceState

	assert.NotNil(t, s.History)
	assert.Empty(t, s.History)
	assert.Equal(t, 4, s.LastActiveMonth)
	assert.Equal(t, 2024, s.LastActiveYear)
	require.Len(t, s.Expenses, 2)
	assert.Equal(t, CategoryOther, s.Expenses[0].Category)
	assert.Equal(t, 120.5, s.Expenses[0].Amount)
	assert.Equal(t, CategoryRent, s.Expenses[1].Category)
	assert.Equal(t, date(2024, time.May, 1), s.Expenses[1].Date)
	assert.Equal(t, time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC), s.IncomeSources[0].Date)

	assert.Contains(t, repairs, "lastActiveMonth")
	assert.Contains(t, repairs, "expenses[0].category")
	assert.NotContains(t, repairs, "expenses[1].category")
}

func TestNormalize_MalformedEntries(t *testing.T) {
	raw := decode(t, `{
		"financeState": {
			"incomeSources": [{"amount": "abc"}, "junk", null, {"id": 7, "name": 42, "amount": 10, "date": "yesterday"}],
			"expenses": [{"name": "", "amount": 5, "category": 3}],
			"goal": {"name": {"x": 1}, "targetAmount": 0, "durationMonths": "soon"},
			"history": "not-a-list",
			"lastActiveMonth": 14,
			"lastActiveYear": "2024"
		}
	}`)

	data, repairs := Normalize(raw, loadNow)
	s := data.FinanceState

	require.Len(t, s.IncomeSources, 2)
	first := s.IncomeSources[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, UnnamedIncome, first.Name)
	assert.Equal(t, 0.0, first.Amount)
	assert.Equal(t, loadNow, first.Date)

	second := s.IncomeSources[1]
	assert.Equal(t, "7", second.ID)
	assert.Equal(t, "42", second.Name)
	assert.Equal(t, loadNow, second.Date)

	require.Len(t, s.Expenses, 1)
	assert.Equal(t, UnnamedExpense, s.Expenses[0].Name)
	assert.Equal(t, CategoryOther, s.Expenses[0].Category)

	require.NotNil(t, s.Goal)
	assert.Equal(t, UnnamedGoal, s.Goal.Name)
	assert.Equal(t, 1000.0, s.Goal.TargetAmount)
	assert.Equal(t, 0.0, s.Goal.SavedAmount)
	assert.Equal(t, 1, s.Goal.DurationMonths)

	assert.Empty(t, s.History)
	assert.Equal(t, 4, s.LastActiveMonth)
	assert.Equal(t, 2024, s.LastActiveYear)

	assert.Contains(t, repairs, "history")
	assert.Contains(t, repairs, "incomeSources[1]")
}

func TestNormalize_RecurringRules(t *testing.T) {
	raw := decode(t, `{
		"financeState": {
			"recurringBills": [
				{"id": "b1", "name": "Internet", "amount": 250, "category": "BILLS", "recurrenceType": "شهري", "dayOfMonth": 45, "lastAddedDate": "2024-04-05T00:00:00Z"},
				{"id": "b2", "name": "Insurance", "amount": 2400, "category": "الطموبيل", "recurrenceType": "YEARLY", "month": 0, "day": 10},
				{"id": "b3", "amount": 99, "recurrenceType": "WEEKLY"}
			],
			"recurringIncomes": [
				{"id": "r1", "name": "Salary", "amount": 8000, "recurrenceType": "سنوي", "month": 6, "day": 1, "lastAppliedDate": null}
			],
			"lastActiveMonth": 4,
			"lastActiveYear": 2024
		}
	}`)

	data, _ := Normalize(raw, loadNow)
	s := data.FinanceState

	require.Len(t, s.RecurringBills, 3)

	internet := s.RecurringBills[0]
	assert.Equal(t, CategoryBills, internet.Category)
	assert.Equal(t, RecurrenceMonthly, internet.RecurrenceType)
	assert.Equal(t, 31, internet.DayOfMonth)
	require.NotNil(t, internet.LastAppliedDate)
	assert.Equal(t, date(2024, time.April, 5), *internet.LastAppliedDate)

	insurance := s.RecurringBills[1]
	assert.Equal(t, RecurrenceYearly, insurance.RecurrenceType)
	assert.Equal(t, 1, insurance.Month)
	assert.Equal(t, 10, insurance.Day)
	assert.Equal(t, 0, insurance.DayOfMonth)

	unnamed := s.RecurringBills[2]
	assert.Equal(t, UnnamedRecurringBill, unnamed.Name)
	assert.Equal(t, RecurrenceMonthly, unnamed.RecurrenceType)
	assert.Equal(t, 1, unnamed.DayOfMonth)
	assert.Equal(t, CategoryOther, unnamed.Category)

	require.Len(t, s.RecurringIncomes, 1)
	salary := s.RecurringIncomes[0]
	assert.Equal(t, RecurrenceYearly, salary.RecurrenceType)
	assert.Equal(t, 6, salary.Month)
	assert.Nil(t, salary.LastAppliedDate)
}

func TestNormalize_LegacySalaryMigration(t *testing.T) {
	t.Run("migrates salary", func(t *testing.T) {
		raw := decode(t, `{"financeState": {"income": {"salary": 7500}}}`)
		data, _ := Normalize(raw, loadNow)

		require.Len(t, data.FinanceState.IncomeSources, 1)
		migrated := data.FinanceState.IncomeSources[0]
		assert.Equal(t, MigratedSalaryID, migrated.ID)
		assert.Equal(t, MigratedSalaryName, migrated.Name)
		assert.Equal(t, 7500.0, migrated.Amount)
	})

	t.Run("zero salary is dropped", func(t *testing.T) {
		raw := decode(t, `{"financeState": {"income": {"salary": 0}}}`)
		data, _ := Normalize(raw, loadNow)
		assert.Empty(t, data.FinanceState.IncomeSources)
	})

	t.Run("income sources win", func(t *testing.T) {
		raw := decode(t, `{"financeState": {"income": {"salary": 7500}, "incomeSources": []}}`)
		data, _ := Normalize(raw, loadNow)
		assert.Empty(t, data.FinanceState.IncomeSources)
	})
}

func TestNormalize_History(t *testing.T) {
	raw := decode(t, `{
		"financeState": {
			"history": [
				{"month": 2, "year": 2024, "totalIncome": 1000, "totalExpenses": 500, "savings": 500,
				 "incomeSources": [{"id": "i1", "name": "Salary", "amount": 1000, "date": "2024-03-01"}],
				 "expenses": [{"id": "e1", "name": "Food", "amount": 500, "category": "التقدية", "date": "2024-03-02"}]},
				{"month": "x"}
			]
		}
	}`)

	data, _ := Normalize(raw, loadNow)
	h := data.FinanceState.History

	require.Len(t, h, 2)
	assert.Equal(t, 2, h[0].Month)
	assert.Equal(t, 500.0, h[0].Savings)
	require.Len(t, h[0].Expenses, 1)
	assert.Equal(t, CategoryShopping, h[0].Expenses[0].Category)
	assert.Equal(t, 0, h[1].Month)
	assert.Equal(t, 2024, h[1].Year)
	assert.NotNil(t, h[1].Expenses)
}

func TestNormalize_ChatHistory(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []ChatMessage
	}{
		{
			name: "keeps valid messages",
			doc:  `{"chatHistory": [{"type": "agent", "text": "salam"}, {"type": "user", "text": "zid 100"}]}`,
			want: []ChatMessage{{Type: ChatRoleAgent, Text: "salam"}, {Type: ChatRoleUser, Text: "zid 100"}},
		},
		{
			name: "drops invalid messages",
			doc:  `{"chatHistory": [{"type": "system", "text": "x"}, {"type": "user", "text": ""}, "junk", {"type": "user", "text": "ok"}]}`,
			want: []ChatMessage{{Type: ChatRoleUser, Text: "ok"}},
		},
		{
			name: "empty falls back to greeting",
			doc:  `{"chatHistory": []}`,
			want: DefaultChatHistory(),
		},
		{
			name: "not a list",
			doc:  `{"chatHistory": {"type": "user"}}`,
			want: DefaultChatHistory(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, _ := Normalize(decode(t, tt.doc), loadNow)
			assert.Equal(t, tt.want, data.ChatHistory)
		})
	}
}

func TestNormalize_NativeValues(t *testing.T) {
	created := time.Date(2023, time.January, 2, 3, 4, 5, 0, time.UTC)
	raw := map[string]interface{}{
		"createdAt": created,
		"financeState": map[string]interface{}{
			"expenses": []interface{}{
				map[string]interface{}{"id": "e1", "name": "Fuel", "amount": int64(300), "category": "الطموبيل", "date": created},
			},
			"lastActiveMonth": int64(4),
			"lastActiveYear":  int64(2024),
		},
	}

	data, repairs := Normalize(raw, loadNow)

	assert.Equal(t, created, data.CreatedAt)
	require.Len(t, data.FinanceState.Expenses, 1)
	assert.Equal(t, 300.0, data.FinanceState.Expenses[0].Amount)
	assert.Equal(t, created, data.FinanceState.Expenses[0].Date)
	assert.Empty(t, repairs)
}

func TestNormalize_Idempotent(t *testing.T) {
	s := marchState()
	future := date(2024, time.March, 1)
	s.RecurringBills[0].LastAppliedDate = &future
	data := UserData{FinanceState: s, ChatHistory: DefaultChatHistory(), CreatedAt: loadNow}

	encoded, err := json.Marshal(data)
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &raw))

	got, repairs := Normalize(raw, loadNow)
	assert.Empty(t, repairs)
	assert.Equal(t, data, got)
}

func TestNormalize_BlankPeriodFields(t *testing.T) {
	now := time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)
	raw := decode(t, `{
		"financeState": {
			"expenses": [{"id": "e1", "name": "Rent", "amount": 300, "category": "Rent", "date": "2024-07-01"}],
			"lastActiveMonth": "",
			"lastActiveYear": ""
		}
	}`)

	data, repairs := Normalize(raw, now)
	s := data.FinanceState

	assert.Equal(t, 6, s.LastActiveMonth)
	assert.Equal(t, 2024, s.LastActiveYear)
	assert.Contains(t, repairs, "lastActiveMonth")
	assert.Contains(t, repairs, "lastActiveYear")

	reconciled, rollover := Reconcile(s, now)
	assert.False(t, rollover.Advanced)
	assert.Len(t, reconciled.Expenses, 1)
	assert.Empty(t, reconciled.History)
}

func TestNormalize_NonPositiveGoal(t *testing.T) {
	tests := []struct {
		name         string
		goal         string
		wantTarget   float64
		wantDuration int
		wantRepairs  []string
	}{
		{
			name:         "negative values",
			goal:         `{"name": "Car", "targetAmount": -500, "savedAmount": 40, "durationMonths": -3}`,
			wantTarget:   1000,
			wantDuration: 1,
			wantRepairs:  []string{"goal.targetAmount", "goal.durationMonths"},
		},
		{
			name:         "fractional duration below one month",
			goal:         `{"name": "Car", "targetAmount": 5000, "durationMonths": 0.4}`,
			wantTarget:   5000,
			wantDuration: 1,
			wantRepairs:  []string{"goal.durationMonths"},
		},
		{
			name:         "blank strings",
			goal:         `{"name": "Car", "targetAmount": "", "durationMonths": ""}`,
			wantTarget:   1000,
			wantDuration: 1,
			wantRepairs:  []string{"goal.targetAmount", "goal.durationMonths"},
		},
		{
			name:         "valid values kept",
			goal:         `{"name": "Car", "targetAmount": 60000, "savedAmount": 1200, "durationMonths": 18}`,
			wantTarget:   60000,
			wantDuration: 18,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := decode(t, `{"financeState": {"goal": `+tt.goal+`, "lastActiveMonth": 4, "lastActiveYear": 2024}}`)

			data, repairs := Normalize(raw, loadNow)

			require.NotNil(t, data.FinanceState.Goal)
			assert.Equal(t, tt.wantTarget, data.FinanceState.Goal.TargetAmount)
			assert.Equal(t, tt.wantDuration, data.FinanceState.Goal.DurationMonths)
			for _, r := range tt.wantRepairs {
				assert.Contains(t, repairs, r)
			}
			if len(tt.wantRepairs) == 0 {
				assert.NotContains(t, repairs, "goal.targetAmount")
				assert.NotContains(t, repairs, "goal.durationMonths")
			}
		})
	}
}
