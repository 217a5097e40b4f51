package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

const schemaBlock = `DATABASE SCHEMA:
- products: id, name, description, price, color, category, image_url, stock
- cart: id, user_id, product_id, quantity, size, added_at
- orders: id, user_id, total_amount, status, shipping_address, created_at
- order_items: id, order_id, product_id, quantity, size, price`

const cssBlock = `AVAILABLE CSS CLASSES:
- product-grid, product-card, product-image, product-info, product-price, add-btn
- cart-summary, cart-item, cart-total
- checkout-form, form-group, submit-btn`

const chatSystemPrompt = `You are an AI backend with direct database access for an e-commerce app.

%s

%s

YOUR JOB:
1. Generate SQL queries to handle user requests
2. Generate HTML using CSS classes above
3. Return valid JSON ONLY

RESPONSE FORMAT (MUST BE VALID JSON):
{
  "message": "conversational response",
  "sql": "SELECT * FROM products WHERE...",
  "html": "<div class='product-grid'>...</div>"
}

RULES:
- ALWAYS use user_id = %d for cart/orders queries
- Generate complete valid SQL
- Embed actual data in HTML (don't use placeholders)
- For cart operations, include data-product-id and data-size attributes on buttons
- Make HTML interactive with onclick handlers where needed
- RETURN ONLY JSON, NO MARKDOWN, NO EXTRA TEXT`

const sqlSystemPrompt = `You are a SQL generator for an e-commerce app.

%s

YOUR JOB: translate the user request into SQL for the schema above.

RESPONSE FORMAT (MUST BE VALID JSON):
{
  "message": "conversational response",
  "sql": "SELECT * FROM products WHERE..."
}

RULES:
- ALWAYS use user_id = %d for cart/orders queries
- Generate complete valid SQL, one or more statements in the "sql" field
- Do NOT generate HTML in this step
- RETURN ONLY JSON, NO MARKDOWN, NO EXTRA TEXT`

const templateSystemPrompt = `You are a presentation generator for an e-commerce app.

%s

A SQL query was executed on the user's behalf. Produce a rendering template
for the result set using Go html/template syntax: the data is bound as
.Rows (a list of column-name to value maps) and .UserID. Iterate with
{{range .Rows}} and access columns by {{.name}}, {{.price}}, etc.

RESPONSE FORMAT (MUST BE VALID JSON):
{
  "message": "conversational response",
  "template": "<div class='product-grid'>{{range .Rows}}...{{end}}</div>"
}

RULES:
- Use only the CSS classes above
- Do not embed row data directly; reference columns through the template
- RETURN ONLY JSON, NO MARKDOWN, NO EXTRA TEXT`

// BuildChatPrompt assembles the single-round prompt: system instructions,
// the bounded conversation history, and the user message.
func BuildChatPrompt(in PromptInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, chatSystemPrompt, schemaBlock, cssBlock, in.UserID)
	writeHistory(&b, in.History)
	fmt.Fprintf(&b, "\nUSER MESSAGE: %s\n\nRESPOND WITH JSON ONLY:", in.Message)
	return b.String()
}

// BuildSQLPrompt assembles the first-round prompt of the two-round
// variant: SQL only, no markup.
func BuildSQLPrompt(in PromptInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, sqlSystemPrompt, schemaBlock, in.UserID)
	writeHistory(&b, in.History)
	fmt.Fprintf(&b, "\nUSER MESSAGE: %s\n\nRESPOND WITH JSON ONLY:", in.Message)
	return b.String()
}

// BuildTemplatePrompt assembles the second-round prompt. The model sees
// the statement, the row count and a bounded sample — rendering with the
// full result set happens outside the oracle.
func BuildTemplatePrompt(in TemplateInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, templateSystemPrompt, cssBlock)
	fmt.Fprintf(&b, "\n\nUSER MESSAGE: %s\n", in.Message)
	fmt.Fprintf(&b, "EXECUTED SQL: %s\n", in.Statement)
	fmt.Fprintf(&b, "ROW COUNT: %d\n", in.RowCount)
	if len(in.Sample) > 0 {
		sample, err := json.Marshal(in.Sample)
		if err == nil {
			fmt.Fprintf(&b, "SAMPLE ROWS: %s\n", sample)
		}
	}
	b.WriteString("\nRESPOND WITH JSON ONLY:")
	return b.String()
}

func writeHistory(b *strings.Builder, history []HistoryEntry) {
	if len(history) == 0 {
		return
	}
	b.WriteString("\n\nCONVERSATION HISTORY:\n")
	for _, h := range history {
		fmt.Fprintf(b, "%s: %s\n", h.Role, h.Content)
	}
}
