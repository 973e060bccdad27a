package email

const orderStatusHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #059669, #047857); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .info-box { background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .info-row { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid #e5e7eb; }
        .info-row:last-child { border-bottom: none; }
        .info-label { color: #6b7280; }
        .info-value { font-weight: 600; }
        .status { display: inline-block; padding: 4px 12px; border-radius: 999px; background: #d1fae5; color: #065f46; font-weight: 600; text-transform: capitalize; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.BusinessName}}</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Order update</p>
    </div>
    <div class="content">
        <p>Hello {{.CustomerName}},</p>
        <p>Your order is now <span class="status">{{.Status}}</span>.</p>
        <div class="info-box">
            <div class="info-row">
                <span class="info-label">Order</span>
                <span class="info-value">{{.OrderID}}</span>
            </div>
            {{range .Items}}
            <div class="info-row">
                <span class="info-label">{{.Quantity}} x {{.Name}}</span>
                <span class="info-value">{{.Amount}}</span>
            </div>
            {{end}}
            <div class="info-row">
                <span class="info-label">Total</span>
                <span class="info-value">{{.Currency}} {{.Total}}</span>
            </div>
            <div class="info-row">
                <span class="info-label">Payment</span>
                <span class="info-value">{{.PaymentStatus}}</span>
            </div>
        </div>
    </div>
    <div class="footer">
        <p>Sent by {{.BusinessName}} via MRU.</p>
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>
`

const orderStatusText = `{{.BusinessName}}: order update

Hello {{.CustomerName}},

Your order {{.OrderID}} is now {{.Status}}.
{{range .Items}}
  {{.Quantity}} x {{.Name}}  {{.Amount}}{{end}}

Total: {{.Currency}} {{.Total}}
Payment: {{.PaymentStatus}}
`
