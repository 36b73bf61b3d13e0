// Package ofx extracts transaction drafts from OFX/QFX bank and credit card statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/klaro/internal/common"
	"github.com/Veraticus/klaro/internal/model"
	"github.com/Veraticus/klaro/internal/service"
)

var _ service.Extractor = (*Parser)(nil)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements service.Extractor for OFX/QFX files.
type Parser struct {
	tags []string
}

// Option configures a Parser.
type Option func(*Parser)

// WithTags attaches tags to every extracted draft.
func WithTags(tags ...string) Option {
	return func(p *Parser) {
		p.tags = append(p.tags, tags...)
	}
}

// NewParser creates a new OFX parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML exports sometimes drop the closing bracket of a bare tag line.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// Extract parses an OFX/QFX statement into transaction drafts. Debits become
// expenses and credits become income; drafts carry no id. A statement without
// any transactions yields common.ErrNoTransactions.
func (p *Parser) Extract(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var drafts []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			drafts = append(drafts, p.convertList(stmt.BankTranList)...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			drafts = append(drafts, p.convertList(stmt.BankTranList)...)
		}
	}

	slog.Debug("Parsed OFX file",
		"total_transactions", len(drafts),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	if len(drafts) == 0 {
		return nil, common.ErrNoTransactions
	}
	return drafts, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList) []model.Transaction {
	if list == nil {
		return nil
	}

	drafts := make([]model.Transaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		draft, ok := p.convertTransaction(ofxTx)
		if !ok {
			slog.Debug("Skipping zero-amount OFX transaction", "fitid", ofxTx.FiTID)
			continue
		}
		drafts = append(drafts, draft)
	}
	return drafts
}

// convertTransaction maps one OFX transaction onto a draft. OFX signs debits
// negative; the ledger stores magnitudes and a type.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction) (model.Transaction, bool) {
	amount, _ := ofxTx.TrnAmt.Float64()
	if amount == 0 {
		return model.Transaction{}, false
	}

	typ := model.TypeIncome
	if amount < 0 {
		typ = model.TypeExpense
		amount = -amount
	}

	draft := model.Transaction{
		Date:        model.DateOf(ofxTx.DtPosted.Time),
		Type:        typ,
		Description: p.extractMerchantName(ofxTx),
		Amount:      amount,
	}
	if len(p.tags) > 0 {
		draft.Tags = append([]string(nil), p.tags...)
	}
	return draft, true
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// PAYEE is usually the cleanest name.
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)

	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " authorization dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}

// GetAccounts extracts unique account IDs from the OFX file in statement order.
func (p *Parser) GetAccounts(ctx context.Context, reader io.Reader) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	add := func(id ofxgo.String) {
		if id == "" || seen[string(id)] {
			return
		}
		seen[string(id)] = true
		accounts = append(accounts, string(id))
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(stmt.BankAcctFrom.AcctID)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(stmt.CCAcctFrom.AcctID)
		}
	}

	return accounts, nil
}

// FilterDuplicates drops drafts whose fingerprint matches an existing
// transaction or an earlier draft.
func FilterDuplicates(existing, drafts []model.Transaction) []model.Transaction {
	seen := make(map[string]bool, len(existing)+len(drafts))
	for i := range existing {
		seen[existing[i].Fingerprint()] = true
	}

	var fresh []model.Transaction
	for i := range drafts {
		fp := drafts[i].Fingerprint()
		if seen[fp] {
			continue
		}
		seen[fp] = true
		fresh = append(fresh, drafts[i])
	}
	return fresh
}
