package assistant

import (
	"fmt"
	"strings"
	"time"
)

const agentInstruction = `
# الدور والشخصية

سميتك "لحساب صابون".
نتا وكيل مالي ذكي ومحترف، كتهضر بالدارجة المغربية بطريقة ساهلة ومفهومة.
خدمتك هي تعاون المستخدم يتبع المداخيل والمصاريف ديالو، يحط أهداف مالية، ويوصل ليها بتنظيم وتخطيط.
المستخدم عندو بزاف ديال مصادر الدخل مسجلين ف 'incomeSources'. ملي يقولك زاد شي مدخول، استعمل 'ADD_INCOME_SOURCE'.
كون محفز، بسيط فالهضرة، وماتحكمش على المستخدم.

# المهمة

جاوب ديما ب JSON كيتبع الـ schema.
'responseMessage' هو الجواب ديالك للمستخدم بالدارجة.
'action' و 'payload' كيستعملهم التطبيق باش يبدل الحالة المالية.
ملي تزيد مصروف، صنفو فواحد من هاد الفئات: %s.
باش تمسح مصروف، استعمل 'DELETE_EXPENSE' وحط الـ id ديالو فالـ payload.
التاريخ ديال اليوم هو %s.
خلي الأجوبة قصيرة ومفيدة.
`

const publicInstruction = `
# الدور والشخصية
سميتك "لحساب صابون". نتا وكيل مالي كتهضر بالدارجة المغربية، وكتجاوب على الأسئلة العامة ديال الزوار على تدبير الفلوس، التوفير، والميزانية.
هادي نسخة عامة، ماعندكش وصول لحتى شي معلومة شخصية ديال المستخدم.
كون ودود ومحفز، وعطي نصائح عامة ومفيدة.
شجع المستخدم يتسجل فالتطبيق باش يتبع مصاريفو ويدير أهداف خاصة بيه.

# المهمة
جاوب على السؤال بنصيحة مالية عامة بالدارجة، ب JSON كيتبع الـ schema.
عطي 2 ولا 3 ديال الأسئلة اللي ممكن يسولها المستخدم من بعد.
`

const splitInstruction = `
# الدور
نتا "لحساب صابون"، خبير فالميزانية ديال الأسر فالمغرب.
قسم الأجرة الشهرية على المصاريف حسب غلاء المعيشة فالمدينة وقاعدة 50/30/20.
المصاريف الثابتة اللي عطاك المستخدم خاصها تبقى كيف ما هي و 'isFixed' تكون true.
زيد المصاريف اللي ناقصة بمبالغ معقولة و 'isFixed' تكون false، وزيد ملاحظة قصيرة ملي يكون شي مبلغ طالع بزاف.
'advice' نصيحة عامة بالدارجة، و 'warnings' تنبيهات محددة ملي المصاريف كتفوت الأجرة ولا التوفير قليل.
جاوب ب JSON كيتبع الـ schema.
`

// agentSystemInstruction renders the signed-in persona with today's date.
func agentSystemInstruction(today time.Time) string {
	labels := make([]string, 0, len(categoryLabels()))
	for _, l := range categoryLabels() {
		labels = append(labels, "'"+l+"'")
	}
	return fmt.Sprintf(agentInstruction, strings.Join(labels, "، "), today.Format("2006-01-02"))
}

var interpretSchema = map[string]interface{}{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"action": map[string]interface{}{
			"type": "STRING",
			"enum": []string{
				string(ActionAddIncomeSource),
				string(ActionAddExpense),
				string(ActionSetGoal),
				string(ActionGeneralResponse),
				string(ActionDeleteExpense),
			},
			"description": "The financial action to perform based on user input.",
		},
		"payload": map[string]interface{}{
			"type":        "OBJECT",
			"description": "Data needed to perform the action: an income, an expense, a goal or the id of an expense to delete.",
			"properties": map[string]interface{}{
				"incomeSource": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"name":   map[string]interface{}{"type": "STRING"},
						"amount": map[string]interface{}{"type": "NUMBER"},
					},
				},
				"expense": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"name":     map[string]interface{}{"type": "STRING"},
						"amount":   map[string]interface{}{"type": "NUMBER"},
						"category": map[string]interface{}{"type": "STRING", "enum": categoryLabels()},
					},
				},
				"goal": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"name":           map[string]interface{}{"type": "STRING"},
						"targetAmount":   map[string]interface{}{"type": "NUMBER"},
						"durationMonths": map[string]interface{}{"type": "NUMBER"},
					},
				},
				"id": map[string]interface{}{"type": "STRING", "description": "The ID of an expense to delete."},
			},
		},
		"responseMessage": map[string]interface{}{
			"type":        "STRING",
			"description": "A friendly, motivational response in Moroccan Darija.",
		},
	},
	"required": []string{"action", "responseMessage"},
}

var publicSchema = map[string]interface{}{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"responseMessage": map[string]interface{}{
			"type":        "STRING",
			"description": "General financial advice in Moroccan Darija.",
		},
		"suggestions": map[string]interface{}{
			"type":        "ARRAY",
			"description": "Two or three follow-up questions the visitor might ask.",
			"items":       map[string]interface{}{"type": "STRING"},
		},
	},
	"required": []string{"responseMessage"},
}

var splitSchema = map[string]interface{}{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"allocations": map[string]interface{}{
			"type": "ARRAY",
			"items": map[string]interface{}{
				"type": "OBJECT",
				"properties": map[string]interface{}{
					"category":   map[string]interface{}{"type": "STRING"},
					"amount":     map[string]interface{}{"type": "NUMBER"},
					"percentage": map[string]interface{}{"type": "NUMBER"},
					"isFixed":    map[string]interface{}{"type": "BOOLEAN"},
					"note":       map[string]interface{}{"type": "STRING"},
				},
			},
		},
		"totalExpenses":         map[string]interface{}{"type": "NUMBER"},
		"remaining":             map[string]interface{}{"type": "NUMBER"},
		"savingsRecommendation": map[string]interface{}{"type": "NUMBER"},
		"advice":                map[string]interface{}{"type": "STRING"},
		"warnings": map[string]interface{}{
			"type":  "ARRAY",
			"items": map[string]interface{}{"type": "STRING"},
		},
	},
	"required": []string{"allocations", "totalExpenses", "remaining", "savingsRecommendation", "advice"},
}
