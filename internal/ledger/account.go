package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	horizon "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
	"go.uber.org/zap"
)

const (
	horizonClientMissingMessageConstant    = "horizon client not configured"
	credentialFieldNameConstant            = "credential"
	invalidConfigurationTemplateConstant   = "%s: %s"
	credentialParseErrorTemplateConstant   = "unable to parse account secret: %w"
	accountLoadErrorTemplateConstant       = "unable to load account %s: %w"
	transactionBuildErrorTemplateConstant  = "unable to build retirement transaction for %s: %w"
	transactionSignErrorTemplateConstant   = "unable to sign retirement transaction for %s: %w"
	transactionSubmitErrorTemplateConstant = "unable to submit retirement transaction for %s: %w"
	retirementRejectedMessageConstant      = "Ledger rejected retirement transaction"
	retirementUnsuccessfulMessageConstant  = "Retirement transaction was not successful"
	logFieldPublicAddressConstant          = "public_address"
	logFieldTransactionResultCodeConstant  = "transaction_result_code"
	logFieldOperationResultCodesConstant   = "operation_result_codes"
	logFieldTransactionHashConstant        = "transaction_hash"
	logFieldHorizonStatusConstant          = "horizon_status"
	retiredMasterWeightConstant            = 0
	retirementThresholdConstant            = txnbuild.Threshold(retiredMasterWeightConstant)
)

var (
	// ErrHorizonClientMissing indicates the opener was constructed without a Horizon client.
	ErrHorizonClientMissing = errors.New(horizonClientMissingMessageConstant)
)

// InvalidConfigurationError describes an unusable network configuration or credential.
type InvalidConfigurationError struct {
	FieldName string
	Message   string
}

// Error describes the invalid configuration.
func (configurationError InvalidConfigurationError) Error() string {
	return fmt.Sprintf(invalidConfigurationTemplateConstant, configurationError.FieldName, configurationError.Message)
}

// Opener resolves ledger accounts from their secret credentials.
type Opener interface {
	Open(executionContext context.Context, credential string) (Account, error)
}

// Account is a ledger-bound handle for one wallet.
type Account interface {
	// Address returns the public address derived from the credential.
	Address() string
	// IsRetired reports whether the account can no longer sign transactions.
	IsRetired(executionContext context.Context) (bool, error)
	// Retire disables the account with the supplied memo and reports whether the ledger accepted it.
	Retire(executionContext context.Context, memo string) (bool, error)
}

// HorizonClient is the subset of the Horizon client used by the ledger adapter.
type HorizonClient interface {
	AccountDetail(request horizonclient.AccountRequest) (horizon.Account, error)
	SubmitTransaction(transaction *txnbuild.Transaction) (horizon.Transaction, error)
}

// HorizonOpenerDependencies describes collaborators for HorizonOpener.
type HorizonOpenerDependencies struct {
	Logger        *zap.Logger
	Client        HorizonClient
	Configuration NetworkConfiguration
}

// HorizonOpener opens accounts through a Horizon server.
type HorizonOpener struct {
	logger        *zap.Logger
	client        HorizonClient
	configuration NetworkConfiguration
}

// NewHorizonOpener validates dependencies and constructs a HorizonOpener.
func NewHorizonOpener(dependencies HorizonOpenerDependencies) (*HorizonOpener, error) {
	if dependencies.Client == nil {
		return nil, ErrHorizonClientMissing
	}
	if validationError := dependencies.Configuration.Validate(); validationError != nil {
		return nil, validationError
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HorizonOpener{
		logger:        logger,
		client:        dependencies.Client,
		configuration: dependencies.Configuration,
	}, nil
}

// Open parses the secret seed and loads the account from the ledger.
func (opener *HorizonOpener) Open(executionContext context.Context, credential string) (Account, error) {
	trimmedCredential := strings.TrimSpace(credential)
	if len(trimmedCredential) == 0 {
		return nil, InvalidConfigurationError{FieldName: credentialFieldNameConstant, Message: requiredValueMessageConstant}
	}

	fullKeypair, parseError := keypair.ParseFull(trimmedCredential)
	if parseError != nil {
		return nil, fmt.Errorf(credentialParseErrorTemplateConstant, parseError)
	}

	handle := &horizonAccount{
		opener:  opener,
		keypair: fullKeypair,
	}
	if _, loadError := handle.load(executionContext); loadError != nil {
		return nil, loadError
	}

	return handle, nil
}

type horizonAccount struct {
	opener  *HorizonOpener
	keypair *keypair.Full
}

func (account *horizonAccount) Address() string {
	return account.keypair.Address()
}

func (account *horizonAccount) IsRetired(executionContext context.Context) (bool, error) {
	details, loadError := account.load(executionContext)
	if loadError != nil {
		return false, loadError
	}
	return MasterKeyWeight(details) == retiredMasterWeightConstant, nil
}

func (account *horizonAccount) Retire(executionContext context.Context, memo string) (bool, error) {
	details, loadError := account.load(executionContext)
	if loadError != nil {
		return false, loadError
	}

	configuration := account.opener.configuration
	transaction, buildError := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &details,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{
			&txnbuild.SetOptions{MasterWeight: txnbuild.NewThreshold(retirementThresholdConstant)},
		},
		BaseFee: configuration.BaseFee,
		Memo:    txnbuild.MemoText(memo),
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(int64(configuration.TransactionTimeout.Seconds())),
		},
	})
	if buildError != nil {
		return false, fmt.Errorf(transactionBuildErrorTemplateConstant, account.Address(), buildError)
	}

	signedTransaction, signError := transaction.Sign(configuration.Passphrase, account.keypair)
	if signError != nil {
		return false, fmt.Errorf(transactionSignErrorTemplateConstant, account.Address(), signError)
	}

	if contextError := executionContext.Err(); contextError != nil {
		return false, contextError
	}

	submittedTransaction, submitError := account.opener.client.SubmitTransaction(signedTransaction)
	if submitError != nil {
		if horizonError := horizonclient.GetError(submitError); horizonError != nil {
			account.logRejection(horizonError)
			return false, nil
		}
		return false, fmt.Errorf(transactionSubmitErrorTemplateConstant, account.Address(), submitError)
	}

	if !submittedTransaction.Successful {
		account.opener.logger.Warn(
			retirementUnsuccessfulMessageConstant,
			zap.String(logFieldPublicAddressConstant, account.Address()),
			zap.String(logFieldTransactionHashConstant, submittedTransaction.Hash),
		)
		return false, nil
	}

	return true, nil
}

func (account *horizonAccount) load(executionContext context.Context) (horizon.Account, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return horizon.Account{}, contextError
	}
	details, detailError := account.opener.client.AccountDetail(horizonclient.AccountRequest{AccountID: account.Address()})
	if detailError != nil {
		return horizon.Account{}, fmt.Errorf(accountLoadErrorTemplateConstant, account.Address(), detailError)
	}
	return details, nil
}

func (account *horizonAccount) logRejection(horizonError *horizonclient.Error) {
	fields := []zap.Field{
		zap.String(logFieldPublicAddressConstant, account.Address()),
		zap.Int(logFieldHorizonStatusConstant, horizonError.Problem.Status),
	}
	if resultCodes, codesError := horizonError.ResultCodes(); codesError == nil && resultCodes != nil {
		fields = append(fields,
			zap.String(logFieldTransactionResultCodeConstant, resultCodes.TransactionCode),
			zap.Strings(logFieldOperationResultCodesConstant, resultCodes.OperationCodes),
		)
	}
	account.opener.logger.Warn(retirementRejectedMessageConstant, fields...)
}

// MasterKeyWeight returns the weight of the account's own key among its signers.
// A missing master signer counts as weight zero.
func MasterKeyWeight(details horizon.Account) int32 {
	for _, signer := range details.Signers {
		if signer.Key == details.AccountID {
			return signer.Weight
		}
	}
	return retiredMasterWeightConstant
}
