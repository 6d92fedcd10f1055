package commands

// HelpText lists the spoken commands.
const HelpText = `Available voice commands:

Navigation:
- "Go to dashboard" - switch to the dashboard
- "Go to settings" - open settings
- "Go to analytics" - view analytics
- "Go to chat" - open the chat assistant

Memory:
- "Remember [information]" - store information
- "What do you remember?" - show stored memories
- "Clear" - clear chat history

Financial help:
- "Budget help" - budgeting advice
- "Investment help" - investment guidance
- "Savings help" - savings tips
- "Expenses help" - expense management advice

Data:
- "Save" - save current data
- "Export" - export your stored memories

General:
- "Help" - show this message`

var tips = map[string]string{
	"budget": `Budgeting tips:

1. 50/30/20 rule: 50% needs, 30% wants, 20% savings
2. Track expenses: monitor all spending
3. Set goals: define clear financial objectives
4. Emergency fund: save 3-6 months of expenses
5. Review regularly: check your budget monthly

Would you like specific budgeting advice?`,

	"invest": `Investment basics:

1. Diversify: spread investments across different assets
2. Start early: time in the market beats timing the market
3. Risk tolerance: invest according to your comfort level
4. Long-term focus: think 5+ years for investments
5. Research: understand what you're investing in

Would you like specific investment guidance?`,

	"savings": `Savings strategies:

1. Pay yourself first: save before spending
2. Automate: set up automatic transfers
3. High-yield accounts: use better interest rates
4. Cut expenses: reduce unnecessary spending
5. Set targets: have specific savings goals

Would you like specific savings advice?`,

	"expenses": `Expense management:

1. Track everything: record all expenses
2. Categorize: group expenses by type
3. Identify patterns: find spending trends
4. Cut unnecessary costs: eliminate wasteful spending
5. Negotiate: try to reduce bills and subscriptions

Would you like specific expense management tips?`,
}

const (
	msgRememberUsage       = "use format /remember key=value"
	msgMemoryCleared       = "Memory cleared!"
	msgNothingStored       = "I don't have any memories stored yet."
	msgChatCleared         = "Chat history cleared!"
	msgSpecifyRemember     = "Please specify what to remember."
	msgUnknownDestination  = "Unknown navigation destination."
	msgUnknownRequest      = "Unknown information request."
	msgSaved               = "Data saved successfully!"
	msgExportNotConfigured = "Export is not configured."
	msgMemoryUnavailable   = "Memory could not be updated, please try again."
)
