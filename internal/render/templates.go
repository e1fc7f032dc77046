package render

const instantMessageText = `
{{if .Paid}}🍔 *NOUVELLE COMMANDE {{.Shop.Name}}*{{else}}🏪 *COMMANDE {{if .Delivery}}À LIVRER{{else}}SUR PLACE{{end}}*{{end}}

━━━━━━━━━━━━━━━━━━━
📋 *Commande #{{.ID}}*
💰 *Total: {{.Total}}*
{{if .Paid}}💳 *PAYÉ PAR CARTE*{{else}}💵 *PAIEMENT AU RETRAIT*{{end}}
━━━━━━━━━━━━━━━━━━━

👤 *Client:* {{.Name}}
📞 *Tél:* {{.Phone}}
📧 *Email:* {{.Email}}

📍 *Mode:* {{if .Delivery}}🚚 LIVRAISON{{else}}🏪 SUR PLACE{{end}}
{{- if .Delivery}}
🏠 *Adresse:* {{.Address}}
{{- end}}

━━━━━━━━━━━━━━━━━━━
🍽️ *DÉTAILS:*
━━━━━━━━━━━━━━━━━━━
{{range .Items}}• {{.Quantity}}x {{.Name}} ({{.UnitPrice}})
{{- if .Description}}
   → {{.Description}}
{{- end}}
{{end -}}
{{if .Fee}}• Livraison ({{.Fee}})
{{end -}}
━━━━━━━━━━━━━━━━━━━
{{if .Notes}}📝 *Notes:* {{.Notes}}
{{end -}}
⏰ {{.Time}}
`

const customerEmailHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin: 0; padding: 0; background-color: #f3f4f6; font-family: Arial, sans-serif;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: {{if .Paid}}#10b981{{else}}#f59e0b{{end}}; border-radius: 16px 16px 0 0; padding: 40px 30px; text-align: center;">
      <div style="font-size: 48px;">🍔</div>
      <h1 style="color: white; margin: 10px 0 0 0; font-size: 32px;">{{.Shop.Name}}</h1>
      <p style="color: white; margin: 10px 0 0 0;">{{if .Paid}}Merci pour votre commande !{{else}}Commande confirmée !{{end}}</p>
    </div>
    <div style="background: white; padding: 40px 30px; border-radius: 0 0 16px 16px;">
      <div style="border: 2px solid #e5e7eb; border-radius: 16px; padding: 25px; text-align: center; margin-bottom: 30px;">
        <p style="margin: 0; color: #6b7280; font-size: 14px;">Numéro de commande</p>
        <p style="margin: 8px 0 0 0; font-size: 42px; font-weight: bold;">#{{.ID}}</p>
      </div>
      <p style="color: #374151; font-size: 16px; line-height: 1.7;">
        Bonjour <strong>{{.Greeting}}</strong>,<br><br>
        {{if .Paid}}Votre paiement a bien été reçu !{{else}}Paiement au retrait.{{end}}
        {{if .Delivery}}🚚 <strong>Livraison estimée : 30-45 minutes</strong>{{else}}🏪 <strong>Votre commande sera prête dans 15-20 minutes</strong>{{end}}
      </p>
      <h2 style="color: #111827; font-size: 18px; padding-bottom: 10px;">📋 Votre commande</h2>
      <table style="width: 100%; border-collapse: collapse;">
        <thead>
          <tr style="background: #f9fafb;">
            <th style="padding: 12px; text-align: left;">PRODUIT</th>
            <th style="padding: 12px; text-align: center;">QTÉ</th>
            <th style="padding: 12px; text-align: right;">PRIX</th>
          </tr>
        </thead>
        <tbody>
        {{- range .Items}}
          <tr>
            <td style="padding: 15px; border-bottom: 1px solid #e5e7eb;"><strong>{{.Name}}</strong>{{if .Description}}<br><span style="color: #6b7280; font-size: 13px;">→ {{.Description}}</span>{{end}}</td>
            <td style="padding: 15px; border-bottom: 1px solid #e5e7eb; text-align: center;">{{.Quantity}}</td>
            <td style="padding: 15px; border-bottom: 1px solid #e5e7eb; text-align: right;">{{.LineTotal}}</td>
          </tr>
        {{- end}}
        </tbody>
      </table>
      <div style="background: #f9fafb; border-radius: 12px; padding: 20px; margin: 20px 0;">
        {{if .Fee}}<p style="margin: 0 0 10px 0; color: #6b7280;">Livraison: <span style="float: right;">{{.Fee}}</span></p>{{end}}
        <p style="margin: 0; font-size: 20px; font-weight: bold;">{{if .Paid}}Total payé{{else}}Total à payer{{end}}: <span style="float: right;">{{.Total}}</span></p>
      </div>
      {{if .Delivery}}
      <div style="background: #fef3c7; border-radius: 12px; padding: 20px; margin-bottom: 20px;">
        <h3 style="margin: 0 0 10px 0; color: #92400e;">🚚 Adresse de livraison</h3>
        <p style="margin: 0; color: #78350f;">{{.Address}}</p>
      </div>
      {{else}}
      <div style="background: #dbeafe; border-radius: 12px; padding: 20px; margin-bottom: 20px;">
        <h3 style="margin: 0 0 10px 0; color: #1e40af;">🏪 Retrait sur place</h3>
        <p style="margin: 0; color: #1e3a8a;">{{.Shop.Address}}</p>
      </div>
      {{end}}
      {{if .Notes}}<div style="background: #f3f4f6; border-radius: 12px; padding: 15px; margin-bottom: 20px;"><p style="margin: 0; color: #6b7280;">📝 <strong>Vos notes:</strong> {{.Notes}}</p></div>{{end}}
      <div style="text-align: center; padding-top: 20px; border-top: 1px solid #e5e7eb;">
        <p style="color: #6b7280; margin: 0 0 15px 0;">Une question ?</p>
        <a href="tel:{{.PhoneLink}}" style="display: inline-block; background: #10b981; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: bold;">📞 {{.Shop.Phone}}</a>
      </div>
    </div>
    <div style="text-align: center; padding: 20px; color: #9ca3af; font-size: 12px;">
      <p style="margin: 0;">© {{.Year}} {{.Shop.Name}} - {{.Shop.Address}}</p>
    </div>
  </div>
</body>
</html>`

const operatorEmailHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin: 0; padding: 20px; background-color: #f5f5f5; font-family: Arial, sans-serif;">
  <div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden;">
    <div style="background: {{if .Paid}}#dc2626{{else}}#f59e0b{{end}}; padding: 20px; text-align: center;">
      <h1 style="color: white; margin: 0;">{{if .Paid}}🚨 NOUVELLE COMMANDE{{else}}🏪 COMMANDE SUR PLACE{{end}}</h1>
    </div>
    <div style="background: #fef2f2; padding: 20px; text-align: center;">
      <p style="margin: 0; color: #666;">Commande</p>
      <p style="margin: 5px 0; font-size: 36px; font-weight: bold;">#{{.ID}}</p>
      <p style="margin: 10px 0 0 0; font-size: 24px; font-weight: bold; color: #16a34a;">{{.Total}}</p>
      {{if .Paid}}<p style="margin: 10px 0 0 0; background: #10b981; color: white; display: inline-block; padding: 5px 15px; border-radius: 20px;">💳 PAYÉ</p>{{else}}<p style="margin: 10px 0 0 0; background: #dc2626; color: white; display: inline-block; padding: 5px 15px; border-radius: 20px; font-weight: bold;">💵 À ENCAISSER</p>{{end}}
    </div>
    <div style="padding: 20px; background: #f9f9f9;">
      <h2 style="margin: 0 0 15px 0;">👤 CLIENT</h2>
      <p style="margin: 5px 0;"><strong>Nom:</strong> {{.Name}}</p>
      <p style="margin: 5px 0;"><strong>Tél:</strong> {{.Phone}}</p>
      <p style="margin: 5px 0;"><strong>Email:</strong> {{.Email}}</p>
    </div>
    <div style="padding: 20px; background: {{if .Delivery}}#fef3c7{{else}}#dbeafe{{end}};">
      <h2 style="margin: 0 0 10px 0;">{{if .Delivery}}🚚 LIVRAISON{{else}}🏪 SUR PLACE{{end}}</h2>
      <p style="margin: 0; font-weight: bold;">{{if .Delivery}}{{.Address}}{{else}}Retrait sur place{{end}}</p>
    </div>
    <div style="padding: 20px;">
      <h2 style="margin: 0 0 15px 0;">🍔 COMMANDE</h2>
      <table style="width: 100%; border-collapse: collapse;">
        <thead><tr style="background: #f3f4f6;"><th style="padding: 12px; text-align: left;">Produit</th><th style="padding: 12px; text-align: left;">Options</th><th style="padding: 12px; text-align: right;">Prix</th></tr></thead>
        <tbody>
        {{- range .Items}}
          <tr><td style="padding: 12px; border-bottom: 1px solid #ddd;"><strong>{{.Quantity}}x {{.Name}}</strong></td><td style="padding: 12px; border-bottom: 1px solid #ddd;">{{if .Description}}{{.Description}}{{else}}-{{end}}</td><td style="padding: 12px; border-bottom: 1px solid #ddd; text-align: right;">{{.LineTotal}}</td></tr>
        {{- end}}
        </tbody>
        <tfoot>
          {{if .Fee}}<tr><td colspan="2" style="padding: 12px; text-align: right;">Livraison:</td><td style="padding: 12px; text-align: right;">{{.Fee}}</td></tr>{{end}}
          <tr style="background: #10b981; color: white;"><td colspan="2" style="padding: 15px; font-size: 18px; font-weight: bold;">{{if .Paid}}TOTAL{{else}}TOTAL À ENCAISSER{{end}}</td><td style="padding: 15px; text-align: right; font-size: 24px; font-weight: bold;">{{.Total}}</td></tr>
        </tfoot>
      </table>
    </div>
    {{if .Notes}}<div style="padding: 20px; background: #fef3c7;"><h3 style="margin: 0 0 10px 0;">📝 NOTES</h3><p style="margin: 0; font-weight: bold;">{{.Notes}}</p></div>{{end}}
    <div style="padding: 15px; background: #333; text-align: center;"><p style="margin: 0; color: #999; font-size: 12px;">{{.Time}}</p></div>
  </div>
</body>
</html>`
