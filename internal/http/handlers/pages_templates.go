package handlers

const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}} · Trattoria</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; color: #222; }
    nav { display: flex; gap: 16px; padding: 12px 20px; background: #7a1f1f; }
    nav a { color: #fff; text-decoration: none; }
    nav a.active { font-weight: bold; text-decoration: underline; }
    main { padding: 20px; max-width: 960px; margin: 0 auto; }
    .alert { background: #fde2e2; border: 1px solid #c00; padding: 10px; margin-bottom: 16px; }
    .flash { background: #e3f6e3; border: 1px solid #2a2; padding: 10px; margin-bottom: 16px; }
    .card { border: 1px solid #ddd; border-radius: 6px; padding: 12px; margin-bottom: 12px; }
    .row { display: flex; justify-content: space-between; align-items: center; gap: 8px; }
    .muted { color: #666; font-size: 13px; }
    .total { font-weight: bold; font-size: 18px; }
    form.inline { display: inline; }
    fieldset { border: 1px solid #ddd; margin-bottom: 12px; }
  </style>
</head>
<body>
  {{if .ShowNavbar}}
  <nav>
    <a href="/menu"{{if eq .Path "/menu"}} class="active"{{end}}>Menu</a>
    <a href="/cart"{{if eq .Path "/cart"}} class="active"{{end}}>Cart ({{.CartCount}})</a>
    <a href="/orders"{{if eq .Path "/orders"}} class="active"{{end}}>Kitchen</a>
    <a href="/delivery-orders"{{if eq .Path "/delivery-orders"}} class="active"{{end}}>Delivery</a>
  </nav>
  {{end}}
  <main>
    {{if .Alert}}<div class="alert" role="alert">{{.Alert}}</div>{{end}}
    {{if .Flash}}<div class="flash">{{.Flash}}</div>{{end}}
    {{template "content" .}}
  </main>
</body>
</html>{{end}}`

const menuPageTemplate = `{{define "content"}}
<h1>Menu</h1>
{{range .Data.Dishes}}
  <div class="card">
    <div class="row">
      <div>
        <strong>{{.Name}}</strong>
        {{if .Description}}<div class="muted">{{.Description}}</div>{{end}}
        <div class="muted">{{range $i, $ing := .Ingredients}}{{if $i}}, {{end}}{{$ing.Name}} ({{$ing.Amount}} {{$ing.Metric}}){{end}}</div>
      </div>
      <div>
        <span>{{money .Price}} PLN</span>
        <form class="inline" method="post" action="/menu/add">
          <input type="hidden" name="dishId" value="{{.ID}}" />
          <button type="submit">Add to cart</button>
        </form>
      </div>
    </div>
  </div>
{{else}}
  <p class="muted">The menu is not available right now.</p>
{{end}}
{{end}}`

const cartPageTemplate = `{{define "content"}}
<p><a href="/menu">&larr; Back to menu</a></p>
<h1>Your cart</h1>
{{range .Data.Items}}
  <div class="card row">
    <span>{{.Name}}</span>
    <span>{{money .Price}} PLN</span>
    <form class="inline" method="post" action="/cart/remove">
      <input type="hidden" name="uniqueId" value="{{.UniqueID}}" />
      <button type="submit">Remove</button>
    </form>
  </div>
{{else}}
  <p class="muted">Your cart is empty.</p>
{{end}}
<p class="total">Total: {{.Data.Total}}</p>

<form method="post" action="/cart/checkout">
  <fieldset>
    <legend>Delivery</legend>
    <label><input type="radio" name="deliveryType" value="pickup"{{if ne .Data.Form.DeliveryType "delivery"}} checked{{end}} /> Pickup</label>
    <label><input type="radio" name="deliveryType" value="delivery"{{if eq .Data.Form.DeliveryType "delivery"}} checked{{end}} /> Delivery</label>
  </fieldset>
  <fieldset>
    <legend>Address (delivery only)</legend>
    <input name="street" placeholder="Street" value="{{.Data.Form.Address.Street}}" />
    <input name="buildingNumber" placeholder="Building" value="{{.Data.Form.Address.BuildingNumber}}" />
    <input name="apartmentNumber" placeholder="Apartment" value="{{.Data.Form.Address.ApartmentNumber}}" />
    <input name="city" placeholder="City" value="{{.Data.Form.Address.City}}" />
    <input name="postalCode" placeholder="Postal code" value="{{.Data.Form.Address.PostalCode}}" />
    <input name="floor" placeholder="Floor" value="{{.Data.Form.Address.Floor}}" />
    <input name="staircase" placeholder="Staircase" value="{{.Data.Form.Address.Staircase}}" />
    <textarea name="notes" placeholder="Notes for the driver">{{.Data.Form.Address.Notes}}</textarea>
  </fieldset>
  <fieldset>
    <legend>Payment</legend>
    <select name="paymentMethod">
      <option value="">Choose a payment method</option>
      {{range .Data.PaymentMethods}}<option value="{{.}}"{{if eq (print .) $.Data.Form.PaymentMethod}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </fieldset>
  <button type="submit">Place order</button>
</form>
{{end}}`

const kitchenPageTemplate = `{{define "content"}}
<h1>Kitchen orders</h1>
{{range .Data.Orders}}
  <div class="card">
    <div class="row">
      <strong>Order #{{.ID}}</strong>
      <span>{{.Status}}</span>
    </div>
    <ul>{{range .Dishes}}<li>{{.Quantity}}x {{.Name}}</li>{{end}}</ul>
    <div class="row">
      <form class="inline" method="post" action="/orders/{{.ID}}/status">
        <select name="status">
          {{$current := .Status}}
          {{range $.Data.Statuses}}<option value="{{.}}"{{if eq . $current}} selected{{end}}>{{.}}</option>{{end}}
        </select>
        <button type="submit">Set status</button>
      </form>
      {{if has .Actions "accept"}}
      <form class="inline" method="post" action="/orders/{{.ID}}/accept"><button type="submit">Accept</button></form>
      {{end}}
      <a href="/api/orders/{{.ID}}/ticket">Ticket</a>
    </div>
  </div>
{{else}}
  <p class="muted">No orders.</p>
{{end}}
{{end}}`

const deliveryPageTemplate = `{{define "content"}}
<h1>Delivery orders</h1>
{{range .Data.Orders}}
  <div class="card">
    <div class="row">
      <strong>Order #{{.ID}}</strong>
      <span>{{.Status}}{{if .Delayed}} (delayed){{end}}</span>
    </div>
    <div>{{.Address.Street}} {{.Address.BuildingNumber}}{{if .Address.ApartmentNumber}}/{{.Address.ApartmentNumber}}{{end}}, {{.Address.City}} {{.Address.PostalCode}}</div>
    {{if .Address.Floor}}<div class="muted">Floor {{.Address.Floor}}{{if .Address.Staircase}}, staircase {{.Address.Staircase}}{{end}}</div>{{end}}
    {{if .Address.Notes}}<div class="muted">{{.Address.Notes}}</div>{{end}}
    <div>{{.Client.FirstName}} {{.Client.LastName}} · <a href="tel:{{.Client.Phone}}">Call {{.Client.Phone}}</a></div>
    <ul>{{range .Items}}<li>{{.Quantity}}x {{.Name}}</li>{{end}}</ul>
    <div class="row">
      {{$id := .ID}}
      {{range .Actions}}
      <form class="inline" method="post" action="/delivery-orders/{{$id}}/{{.}}"><button type="submit">{{actionLabel .}}</button></form>
      {{end}}
      <a href="/api/delivery-orders/{{.ID}}/slip">Slip</a>
    </div>
  </div>
{{else}}
  <p class="muted">No orders.</p>
{{end}}
{{end}}`
