// Package notify turns data-flow outcomes into user-facing notifications.
package notify

import (
	"context"
	"errors"
	"sync"

	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Operation names understood by the reporter.
const (
	OpLoadCategories = "load_categories"
	OpLoadProducts   = "load_products"
	OpSaveCategory   = "save_category"
	OpCreateCategory = "create_category"
	OpDeleteCategory = "delete_category"
	OpSaveProduct    = "save_product"
	OpCreateProduct  = "create_product"
	OpDeleteProduct  = "delete_product"
	OpUploadImage    = "upload_image"
	OpLoadPurchases  = "load_purchases"
	OpCheckout       = "checkout"
	OpLogin          = "login"
	OpRegister       = "register"
	OpLogout         = "logout"
	OpAccessDenied   = "access_denied"
)

type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

type messages struct {
	success string
	failure string
}

var catalog = map[string]messages{
	OpLoadCategories: {failure: "Não foi possível carregar as categorias"},
	OpLoadProducts:   {failure: "Não foi possível carregar os produtos desta categoria"},
	OpSaveCategory:   {success: "Categoria atualizada com sucesso!", failure: "Não foi possível atualizar a categoria"},
	OpCreateCategory: {success: "Categoria criada com sucesso!", failure: "Não foi possível criar a categoria"},
	OpDeleteCategory: {success: "Categoria removida com sucesso!", failure: "Não foi possível excluir a categoria"},
	OpSaveProduct:    {success: "Produto atualizado com sucesso!", failure: "Não foi possível salvar o produto"},
	OpCreateProduct:  {success: "Produto adicionado com sucesso!", failure: "Não foi possível salvar o produto"},
	OpDeleteProduct:  {success: "Produto removido com sucesso!", failure: "Não foi possível excluir o produto"},
	OpUploadImage:    {success: "Imagem enviada com sucesso!", failure: "Não foi possível enviar a imagem"},
	OpLoadPurchases:  {failure: "Não foi possível carregar suas compras"},
	OpCheckout:       {success: "Compra realizada com sucesso!", failure: "Não foi possível concluir a compra"},
	OpLogin:          {success: "Login realizado com sucesso!", failure: "Email ou senha inválidos"},
	OpRegister:       {success: "Conta criada com sucesso!", failure: "Não foi possível criar a conta"},
	OpLogout:         {success: "Você saiu da sua conta"},
	OpAccessDenied:   {failure: "Você precisa estar logado para acessar esta página."},
}

// Reporter is shared by every component that talks to the data service.
type Reporter interface {
	Report(ctx context.Context, op string, err error) Notification
	Success(ctx context.Context, op string) Notification
}

type logReporter struct {
	log  *logrus.Logger
	mu   sync.Mutex
	sink func(Notification)
}

// NewLogReporter logs every failure and hands each notification to sink (may be nil).
func NewLogReporter(logger *logrus.Logger, sink func(Notification)) Reporter {
	return &logReporter{log: logger, sink: sink}
}

func (r *logReporter) Report(ctx context.Context, op string, err error) Notification {
	n := Failure(op, err)
	r.log.WithFields(logrus.Fields{"op": op, "error": err}).Error("Operation failed")
	r.emit(n)
	return n
}

func (r *logReporter) Success(ctx context.Context, op string) Notification {
	n := Success(op)
	r.log.WithField("op", op).Info("Operation succeeded")
	r.emit(n)
	return n
}

func (r *logReporter) emit(n Notification) {
	if r.sink == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink(n)
}

// Failure builds the generic destructive notification for op. Access checks
// get their own title; validation errors carry their message.
func Failure(op string, err error) Notification {
	n := Notification{Title: "Erro", Variant: VariantDestructive, Description: catalog[op].failure}
	switch {
	case op == OpAccessDenied:
		n.Title = "Acesso restrito"
	case errors.Is(err, domain.ErrValidation):
		n.Description = err.Error()
	}
	if n.Description == "" {
		n.Description = "Ocorreu um erro inesperado"
	}
	return n
}

func Success(op string) Notification {
	desc := catalog[op].success
	if desc == "" {
		desc = "Operação concluída"
	}
	return Notification{Title: "Sucesso", Description: desc, Variant: VariantDefault}
}
