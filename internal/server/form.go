package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Preview rows are rendered client side from the /process response.
const formHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Restaurant Data Processor</title></head>
<body>
<h1>Restaurant Data Processor</h1>
<form id="f" method="post" action="/export">
<textarea name="text" rows="18" cols="100" placeholder="Paste the raw text here"></textarea><br>
<button type="button" onclick="preview()">Process</button>
<button type="submit">Download Excel File</button>
</form>
<p id="msg"></p>
<table id="preview" border="1"></table>
<script>
async function preview() {
  const body = new URLSearchParams(new FormData(document.getElementById("f")));
  const res = await fetch("/process", {method: "POST", body});
  const data = await res.json();
  const msg = document.getElementById("msg");
  const table = document.getElementById("preview");
  table.innerHTML = "";
  if (!res.ok) { msg.textContent = data.error; return; }
  msg.textContent = "Data processed!";
  const head = table.insertRow();
  data.columns.forEach(c => { const th = document.createElement("th"); th.textContent = c; head.appendChild(th); });
  data.rows.forEach(r => { const tr = table.insertRow(); r.forEach(v => { tr.insertCell().textContent = v; }); });
}
</script>
</body>
</html>`

func formHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.HTML(http.StatusOK, formHTML)
	}
}
