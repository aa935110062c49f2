// Package vocab holds the fixed keyword, brand and domain tables consumed by
// the scoring pipeline. The tables are package-level data so they can be
// swapped or localized without touching any scoring logic.
package vocab

import "strings"

// UrgencyKeywords flag time-pressure phrasing in subject or body.
var UrgencyKeywords = []string{
	"urgent", "immediately", "act now", "expire", "suspended",
	"locked", "verify now", "confirm now", "within 24 hours",
}

// CredentialKeywords flag credential solicitation.
var CredentialKeywords = []string{
	"password", "login", "username", "credential", "account",
	"verify account", "confirm identity", "update payment",
}

// BrandKeywords are brand names whose mention triggers URL cross-checking.
var BrandKeywords = []string{
	"microsoft", "office365", "google", "amazon", "paypal",
	"bank", "apple", "netflix", "facebook", "instagram",
}

// LegitimateRetailers are e-commerce platforms that may legitimately sell
// third-party brands, so a brand mention plus a retailer URL is not misuse.
var LegitimateRetailers = []string{
	"amazon", "ebay", "walmart", "target", "bestbuy", "flipkart", "myntra",
	"ajio", "nykaa", "meesho", "shopify", "etsy", "alibaba", "temu",
	"shein", "aliexpress", "snapdeal", "paytm", "indiamart",
	"apple", "microsoft", "google", "samsung", "dell", "hp", "lenovo",
	"nike", "adidas", "zara", "h&m", "uniqlo",
}

// ScamKeywords cover lottery, prize and money-transfer fraud vocabulary.
var ScamKeywords = []string{
	"lottery", "prize", "winner", "won", "congratulations", "claim",
	"million", "dollars", "pounds", "euros", "inheritance", "beneficiary",
	"transfer funds", "wire transfer", "bitcoin", "cryptocurrency",
	"investment opportunity", "guaranteed return", "risk-free",
	"click here", "click below", "click link", "download attachment",
}

// PressureWords and FearWords feed the sentiment scorer.
var PressureWords = []string{
	"urgent", "immediate", "act now", "hurry", "limited time",
	"expire", "suspended", "warning", "alert", "risk", "threat",
}

var FearWords = []string{
	"suspended", "locked", "blocked", "terminated", "closed",
	"illegal", "fraud", "unauthorized", "security breach",
}

// PopularBrands is the typosquat reference list. Distance is measured
// against the first label of the candidate domain.
var PopularBrands = []string{
	"google", "facebook", "amazon", "microsoft", "apple", "netflix",
	"paypal", "ebay", "twitter", "instagram", "linkedin", "youtube",
	"zillow", "redfin", "chase", "wellsfargo", "bankofamerica",
}

// ImpersonatedBrands is the shorter list used for the substring
// impersonation rule (brand in domain but domain is not <brand>.com).
var ImpersonatedBrands = []string{
	"microsoft", "google", "amazon", "paypal", "apple", "facebook", "netflix",
}

// SuspiciousTLDs is the deny-list of cheap or abuse-heavy top-level domains.
var SuspiciousTLDs = []string{
	".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".click",
	".link", ".local", ".zip", ".loan", ".win", ".bid",
}

// URLShorteners hide the real destination of a link.
var URLShorteners = []string{
	"bit.ly", "tinyurl.com", "goo.gl", "t.co", "ow.ly", "is.gd", "buff.ly",
}

// PhishingDomainKeywords are suspicious when they appear in the domain
// itself rather than the path.
var PhishingDomainKeywords = []string{
	"verify", "secure", "account", "login", "update", "confirm", "validation",
}

// ExtractorTLDs is the fixed TLD allow-list for bare domain extraction
// (catches typosquats written without a scheme or www prefix).
var ExtractorTLDs = []string{
	"com", "org", "net", "xyz", "tk", "ml", "ga", "cf", "gq", "top",
	"click", "link", "local", "zip", "loan", "win", "bid", "co", "io",
	"me", "info",
}

// TrustedTLDSuffixes short-circuit external intelligence to zero risk.
var TrustedTLDSuffixes = []string{
	".edu", ".edu.in", ".ac.in", ".gov", ".gov.in", ".ac.uk", ".edu.au",
}

// TrustedPlatforms are major domains exempt from external checks
// (exact or subdomain match).
var TrustedPlatforms = []string{
	"google.com", "microsoft.com", "apple.com", "amazon.com", "facebook.com",
	"instagram.com", "twitter.com", "linkedin.com", "youtube.com", "netflix.com",
	"paypal.com", "ebay.com", "walmart.com", "target.com", "github.com",
	"stackoverflow.com", "reddit.com", "wikipedia.org", "zoom.us",
}

// MoneyScamWords signal prize/cash bait when they co-occur with a URL.
// "000" catches round amounts like 2000 or 5,000.
var MoneyScamWords = []string{
	"$", "dollar", "free money", "win", "prize", "reward",
	"bonus", "cash", "claim", "000",
}

// ActionWords signal pressure to interact with a link.
var ActionWords = []string{
	"click", "verify", "confirm", "update", "urgent", "login", "signin",
}

// ContextBrands is the brand list for the email-text-vs-URL relationship
// check: a brand named in the email but absent from the link's domain.
var ContextBrands = []string{
	"microsoft", "google", "amazon", "facebook", "paypal", "apple", "bank",
}

// ContainsAny reports whether any needle occurs as a substring of s.
// Callers are expected to lowercase s first.
func ContainsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// CountPresent returns how many distinct needles occur in s.
func CountPresent(s string, needles []string) int {
	count := 0
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			count++
		}
	}
	return count
}
