package knowledge

// defaultEntries is the built-in FAQ corpus used when no source is configured.
var defaultEntries = []FAQEntry{
	{
		Question: "What are your business hours?",
		Answer:   "We're available 24/7 through our support portal. Our live support team is available Monday to Friday, 9 AM to 6 PM EST.",
		Category: "General",
	},
	{
		Question: "How do I reset my password?",
		Answer:   "Click 'Forgot Password' on the login page. Enter your email and follow the instructions sent to your inbox. If you don't receive it, check your spam folder or contact support.",
		Category: "Account",
	},
	{
		Question: "What payment methods do you accept?",
		Answer:   "We accept all major credit cards (Visa, MasterCard, American Express), PayPal, and bank transfers. All payments are secure and encrypted.",
		Category: "Billing",
	},
	{
		Question: "How long does shipping take?",
		Answer:   "Standard shipping takes 5-7 business days. Express shipping takes 2-3 business days. International orders may take 10-15 business days.",
		Category: "Orders",
	},
	{
		Question: "Can I return an item?",
		Answer:   "Yes! We offer a 30-day money-back guarantee on all products. Items must be unused and in original packaging. Contact support to initiate a return.",
		Category: "Returns",
	},
	{
		Question: "How do I update my profile?",
		Answer:   "Go to Settings > Profile and click 'Edit'. Update your information and click 'Save'. Changes take effect immediately.",
		Category: "Account",
	},
	{
		Question: "What is your refund policy?",
		Answer:   "Refunds are processed within 5-7 business days after we receive your returned item. You'll receive an email confirmation once the refund is issued.",
		Category: "Billing",
	},
	{
		Question: "Do you offer a free trial?",
		Answer:   "Yes! We offer a 14-day free trial with full access to all features. No credit card required to start.",
		Category: "Pricing",
	},
	{
		Question: "How can I contact support?",
		Answer:   "You can reach our support team via: Email (support@company.com), Live Chat (available 9 AM - 6 PM EST), or this support portal 24/7.",
		Category: "General",
	},
	{
		Question: "Is my data secure?",
		Answer:   "Yes, we use 256-bit SSL encryption and comply with GDPR and CCPA standards. Your data is backed up daily and never shared with third parties.",
		Category: "Security",
	},
}

// Default returns the built-in FAQ corpus.
func Default() *Base {
	return New(defaultEntries)
}
