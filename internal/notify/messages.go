package notify

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/DaviHS/badaoburguer/internal/status"
)

func NewOrderPayload(orderID uint, customerName string, total decimal.Decimal) Payload {
	return Payload{
		Title: "Novo Pedido Recebido!",
		Body:  fmt.Sprintf("Pedido #%d - %s\nTotal: R$ %s\nStatus: Pendente de pagamento", orderID, customerName, total.StringFixed(2)),
		URL:   "/admin",
	}
}

func StatusChangedAdminPayload(orderID uint, customerName string, from, to status.Status) Payload {
	return Payload{
		Title: "Status do Pedido Atualizado",
		Body:  fmt.Sprintf("Pedido #%d - %s\nStatus: %s -> %s", orderID, customerName, from.Name(), to.Name()),
		URL:   "/admin",
	}
}

func LowStockPayload(productID uint, productName string, stock, minStock int) Payload {
	return Payload{
		Title: "Estoque Baixo",
		Body:  fmt.Sprintf("%s (#%d) com estoque %d (minimo %d)", productName, productID, stock, minStock),
		URL:   "/admin",
	}
}

var statusMessages = map[status.Status]Payload{
	status.Pending:    {Title: "Pedido Recebido", Body: "Seu pedido #%d foi recebido e aguarda pagamento."},
	status.Paid:       {Title: "Pagamento Confirmado", Body: "Pagamento do pedido #%d confirmado! Estamos preparando seu pedido."},
	status.Preparing:  {Title: "Pedido em Preparacao", Body: "Seu pedido #%d esta sendo preparado!"},
	status.Ready:      {Title: "Pedido Pronto", Body: "Seu pedido #%d esta pronto! Em breve saira para entrega."},
	status.Delivering: {Title: "Saiu para Entrega", Body: "Seu pedido #%d saiu para entrega! Fique atento ao telefone."},
	status.Delivered:  {Title: "Pedido Entregue", Body: "Pedido #%d entregue com sucesso! Obrigado pela preferencia."},
	status.Cancelled:  {Title: "Pedido Cancelado", Body: "Seu pedido #%d foi cancelado. Entre em contato para mais informacoes."},
}

func StatusChangedUserPayload(orderID uint, to status.Status) Payload {
	msg, ok := statusMessages[to]
	if !ok {
		return Payload{
			Title: "Status Atualizado",
			Body:  fmt.Sprintf("Status do pedido #%d foi atualizado.", orderID),
			URL:   "/meus-pedidos",
		}
	}
	return Payload{
		Title: msg.Title,
		Body:  fmt.Sprintf(msg.Body, orderID),
		URL:   "/meus-pedidos",
	}
}
